package services

import "time"

// Clock abstracts time so evaluations are reproducible in tests
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock
func SystemClock() Clock { return systemClock{} }
