package common

import "fmt"

var (
	ErrStatsUnavailable  = fmt.Errorf("stats unavailable")
	ErrDestinationExists = fmt.Errorf("destination already exists")
	ErrUnauthorized      = fmt.Errorf("unauthorized")
	ErrHubNotRunning     = fmt.Errorf("websocket hub not running")
)
