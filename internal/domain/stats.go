package domain

import (
	"strconv"
	"time"
)

// EventURIPrefix is the path the statistics service knows events by.
const EventURIPrefix = "/events/"

func EventURI(id int64) string {
	return EventURIPrefix + strconv.FormatInt(id, 10)
}

// ViewStat is one row returned by the statistics service.
type ViewStat struct {
	App  string
	URI  string
	Hits int64
}

// Hit is a single recorded visit.
type Hit struct {
	App       string
	URI       string
	IP        string
	Timestamp time.Time
}
