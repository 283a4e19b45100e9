package atlas

import "slices"

// sortedImage is an input rectangle annotated with its area. It only lives
// for the duration of one Pack call.
type sortedImage struct {
	id   int
	w, h uint32
	area uint64
}

// sortByArea orders sizes by descending area. Equal areas keep ascending
// input order.
func sortByArea(sizes []Size) []sortedImage {
	out := make([]sortedImage, len(sizes))
	for i, s := range sizes {
		out[i] = sortedImage{id: i, w: s.Width, h: s.Height, area: s.Area()}
	}
	slices.SortStableFunc(out, func(a, b sortedImage) int {
		switch {
		case a.area > b.area:
			return -1
		case a.area < b.area:
			return 1
		}
		return a.id - b.id
	})
	return out
}

// SortByArea returns the input indices of sizes in packing order.
func SortByArea(sizes []Size) []int {
	sorted := sortByArea(sizes)
	ids := make([]int, len(sorted))
	for i, s := range sorted {
		ids[i] = s.id
	}
	return ids
}
