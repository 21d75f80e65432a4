// Package store persists registration records. Lookups that match nothing
// return sentinel.ErrNotFound; concurrent writers to one record race and the
// last write wins.
package store

import "udyam/internal/registration/models"

func clone(r *models.Registration) *models.Registration {
	if r == nil {
		return nil
	}
	out := *r
	if r.Step1 != nil {
		s := *r.Step1
		out.Step1 = &s
	}
	if r.Step2 != nil {
		s := *r.Step2
		out.Step2 = &s
	}
	return &out
}
