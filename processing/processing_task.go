package processing

import (
	"sort"
	"strconv"
	"strings"

	"skinviz/logger"
)

const (
	Skipped       = 0 // nothing was drawn, the photo was returned as is
	Done          = 2
	Failed        = 3
	FailedStorage = 4
)

// TaskStatus maps a concern to the outcome of its rendering task
type TaskStatus map[string]int

// String returns comma-separated pairs of concern and status, e.g. "acne:2,pore:0"
func (ts TaskStatus) String() string {
	keys := make([]string, 0, len(ts))
	for k := range ts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+":"+strconv.Itoa(ts[k]))
	}
	return strings.Join(result, ",")
}

func ParseTaskStatus(s string) TaskStatus {
	result := TaskStatus{}
	if s == "" {
		return result
	}
	for _, v := range strings.Split(s, ",") {
		current := strings.Split(v, ":")
		if len(current) != 2 {
			logger.Warn(logger.Fields{"status": s}, "Task status contains invalid chars")
			continue
		}
		result[current[0]], _ = strconv.Atoi(current[1])
	}
	return result
}

// Count returns how many tasks ended with the given status
func (ts TaskStatus) Count(status int) (n int) {
	for _, v := range ts {
		if v == status {
			n++
		}
	}
	return
}
