package analysis

import (
	"time"
)

// TimePoint is one sample of a time-indexed series.
type TimePoint struct {
	Time  time.Time
	Value float64
}

// SetTimeIndex converts the named column to date-times, keeps it as a data
// column, and stably reorders all rows by it. Values that do not parse become
// null and sort last. It returns how many non-empty values failed to parse.
func (d *Dataset) SetTimeIndex(name string) (int, error) {
	c, ok := d.Column(name)
	if !ok {
		return 0, &MissingColumnError{Column: name}
	}
	invalid := 0
	if c.Kind != KindDatetime {
		c.Times = make([]time.Time, len(c.Raw))
		for i, raw := range c.Raw {
			if !c.Valid[i] {
				continue
			}
			t, ok := ParseTimeMaybe(raw)
			if !ok {
				c.Valid[i] = false
				invalid++
				continue
			}
			c.Times[i] = t
		}
		c.Kind = KindDatetime
		c.Nums = nil
	}
	d.SortBy(func(a, b int) bool {
		va, vb := c.Valid[a], c.Valid[b]
		switch {
		case va && vb:
			return c.Times[a].Before(c.Times[b])
		case va:
			return true
		default:
			return false
		}
	})
	d.Index = name
	return invalid, nil
}

// TimeSeries pairs a datetime column with a numeric column, skipping rows where
// either is null. Points follow the dataset's row order.
func (d *Dataset) TimeSeries(timeCol, valueCol string) ([]TimePoint, error) {
	tc, ok := d.Column(timeCol)
	if !ok {
		return nil, &MissingColumnError{Column: timeCol}
	}
	if tc.Kind != KindDatetime {
		return nil, &KindError{Column: timeCol, Kind: tc.Kind, Want: "datetime"}
	}
	vc, ok := d.Column(valueCol)
	if !ok {
		return nil, &MissingColumnError{Column: valueCol}
	}
	if !vc.Kind.Numeric() {
		return nil, &KindError{Column: valueCol, Kind: vc.Kind, Want: "numeric"}
	}
	out := make([]TimePoint, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if !tc.Valid[i] || !vc.Valid[i] {
			continue
		}
		out = append(out, TimePoint{Time: tc.Times[i], Value: vc.Nums[i]})
	}
	return out, nil
}
