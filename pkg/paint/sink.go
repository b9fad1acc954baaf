package paint

// Sink renders commands. scroll is subtracted from every vertical
// coordinate.
type Sink interface {
	Execute(cmd Command, scroll float64)
}

// Visible reports whether any part of cmd falls inside the viewport that
// starts at scroll and is height pixels tall.
func Visible(cmd Command, scroll, height float64) bool {
	top, bottom := cmd.Extent()
	return bottom >= scroll && top <= scroll+height
}

// Draw sends the visible commands of list to sink. offset is the height of
// anything drawn above the page, such as browser chrome.
func Draw(sink Sink, list []Command, scroll, offset, height float64) {
	for _, cmd := range list {
		if !Visible(cmd, scroll, height) {
			continue
		}
		sink.Execute(cmd, scroll-offset)
	}
}
