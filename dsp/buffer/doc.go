// Package buffer provides an arena for the fixed, externally owned sample
// storage of real-time processors. One backing slice is allocated up front
// and carved into sub-slices that are handed to delay lines and filters,
// so no allocation happens once processing has started.
package buffer
