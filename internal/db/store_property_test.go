package db

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: for any sequence of create/delete, ids stay unique and List is
// sorted by creation time, newest first.
func TestStoreCreateDeleteSequences(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("unique ids, createdAt descending", prop.ForAll(
		func(ops []int) bool {
			for _, op := range ops {
				switch {
				case op < 4:
					if _, err := s.Create(ctx, ""); err != nil {
						return false
					}
				case op < 7:
					list, err := s.List(ctx)
					if err != nil {
						return false
					}
					if len(list) > 0 {
						if err := s.Delete(ctx, list[op%len(list)].ID); err != nil {
							return false
						}
					}
				default:
					fc.Advance(time.Duration(op) * time.Millisecond)
				}
			}

			list, err := s.List(ctx)
			if err != nil {
				return false
			}
			seen := map[string]bool{}
			for i, e := range list {
				if seen[e.ID] {
					return false
				}
				seen[e.ID] = true
				if i > 0 && list[i-1].CreatedAt.Before(e.CreatedAt) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 9)),
	))

	properties.TestingRun(t)
}
