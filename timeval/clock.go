package timeval

import "time"

// nowFunc is indirected for testability; Now() is the package's only caller.
var nowFunc = time.Now
