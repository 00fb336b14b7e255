package timeslot

// Day-part boundaries used to bucket availability. Slots outside all three
// ranges are dropped from the response.
const (
	morningStart   TimeOfDay = 6 * 60  // 06:00
	afternoonStart TimeOfDay = 12 * 60 // 12:00
	eveningStart   TimeOfDay = 15 * 60 // 15:00
	eveningEnd     TimeOfDay = 21 * 60 // 21:00
)

// Buckets is the availability for one doctor-establishment relation on one
// date, partitioned into day parts. All three lists are always present,
// possibly empty.
type Buckets struct {
	Morning   []TimeOfDay `json:"morning"`
	Afternoon []TimeOfDay `json:"afternoon"`
	Evening   []TimeOfDay `json:"evening"`
}

func emptyBuckets() Buckets {
	return Buckets{
		Morning:   []TimeOfDay{},
		Afternoon: []TimeOfDay{},
		Evening:   []TimeOfDay{},
	}
}

// Generate walks every timing window for the requested day in steps of the
// consultation duration and returns the free start times bucketed by day
// part. Candidates colliding with an already booked start time are skipped.
// A trailing slot whose end would overrun the window is never emitted.
//
// The walk is pure: identical inputs always produce identical buckets.
func Generate(windows []Window, step Duration, booked []TimeOfDay, rangeStart, rangeEnd TimeOfDay) (Buckets, error) {
	if step <= 0 {
		return Buckets{}, ErrInvalidDuration
	}

	taken := make(map[TimeOfDay]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	out := emptyBuckets()
	for _, w := range windows {
		cur := w.Start
		if rangeStart > cur {
			cur = rangeStart
		}
		end := w.End
		if rangeEnd < end {
			end = rangeEnd
		}
		for cur.Add(step) <= end {
			if _, ok := taken[cur]; !ok {
				switch {
				case cur >= morningStart && cur < afternoonStart:
					out.Morning = append(out.Morning, cur)
				case cur >= afternoonStart && cur < eveningStart:
					out.Afternoon = append(out.Afternoon, cur)
				case cur >= eveningStart && cur < eveningEnd:
					out.Evening = append(out.Evening, cur)
				}
			}
			cur = cur.Add(step)
		}
	}
	return out, nil
}
