package reservation

import (
	"sort"
	"time"
)

// Window is a working interval [Start, End) on one weekday.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (w Window) Valid() bool {
	return w.Start >= 0 && w.End <= minutesPerDay && w.Start < w.End
}

// GenerateSlots walks every window from its start in step increments while
// the slot start is strictly before the window end. The result is ascending
// and free of duplicates even when windows overlap or repeat.
func GenerateSlots(windows []Window, step time.Duration) []TimeOfDay {
	stepMin := int(step / time.Minute)
	if stepMin <= 0 {
		return []TimeOfDay{}
	}

	seen := make(map[TimeOfDay]struct{})
	out := []TimeOfDay{}

	for _, w := range windows {
		if !w.Valid() {
			continue
		}
		for cur := w.Start; cur < w.End; cur += TimeOfDay(stepMin) {
			if _, dup := seen[cur]; dup {
				continue
			}
			seen[cur] = struct{}{}
			out = append(out, cur)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Subtract removes every taken time from slots, keeping slot order.
func Subtract(slots []TimeOfDay, taken []TimeOfDay) []TimeOfDay {
	busy := make(map[TimeOfDay]struct{}, len(taken))
	for _, t := range taken {
		busy[t] = struct{}{}
	}

	out := make([]TimeOfDay, 0, len(slots))
	for _, s := range slots {
		if _, ok := busy[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func Contains(slots []TimeOfDay, t TimeOfDay) bool {
	i := sort.Search(len(slots), func(i int) bool { return slots[i] >= t })
	return i < len(slots) && slots[i] == t
}
