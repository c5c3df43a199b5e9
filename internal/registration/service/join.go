package service

import "context"

// firstFailure runs every branch concurrently and returns the first error
// reported, without waiting for slower branches once one has failed. Late
// results are discarded.
func firstFailure(ctx context.Context, branches ...func(context.Context) error) error {
	errs := make(chan error, len(branches))
	for _, branch := range branches {
		go func() {
			errs <- branch(ctx)
		}()
	}
	for range branches {
		if err := <-errs; err != nil {
			return err
		}
	}
	return nil
}
