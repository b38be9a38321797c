package clipping

// Segment is a planned cut: a start offset and duration in seconds
type Segment struct {
	Start    float64
	Duration float64
}

// PlanSegments evenly distributes clips across a source of the given total
// duration. Clip length is the smaller of maxDur and an even split; when
// the even split falls below minDur the count shrinks to however many
// minDur clips fit. A source shorter than minDur yields an empty plan.
func PlanSegments(total, minDur, maxDur float64, count int) []Segment {
	if total <= 0 || count <= 0 || minDur <= 0 {
		return nil
	}

	duration := min(maxDur, total/float64(count))
	if duration < minDur {
		count = int(total / minDur)
		duration = minDur
	}
	if count <= 0 {
		return nil
	}

	segments := make([]Segment, 0, count)
	stride := total / float64(count)
	for i := 0; i < count; i++ {
		start := float64(i) * stride
		clipDur := duration
		if start+clipDur > total {
			clipDur = total - start
		}
		if clipDur < minDur {
			continue
		}
		segments = append(segments, Segment{Start: start, Duration: clipDur})
	}
	return segments
}
