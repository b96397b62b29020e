package rtu

import "sort"

// buildIndex derives the chronological index from the loaded arrays.
//
// The first id==0 entry is a sentinel terminating the valid prefix; when no
// sentinel is present the whole array is valid. The index pairs each valid
// physical slot with its timestamp and stable-sorts by timestamp, so points
// sharing a timestamp keep their physical order.
func (f *File) buildIndex() {
	valid := len(f.ids)
	for i, id := range f.ids {
		if id == 0 {
			valid = i
			break
		}
	}

	f.phys = make([]int32, valid)
	f.sorted = make([]int32, valid)
	for i := 0; i < valid; i++ {
		f.phys[i] = int32(i)
	}

	sort.SliceStable(f.phys, func(a, b int) bool {
		return f.times[f.phys[a]] < f.times[f.phys[b]]
	})

	for i, p := range f.phys {
		f.sorted[i] = f.times[p]
	}
}

// ValidCount returns the number of points in the valid prefix.
func (f *File) ValidCount() int {
	f.ensureLoaded()
	return len(f.phys)
}
