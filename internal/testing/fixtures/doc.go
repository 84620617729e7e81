// Package fixtures provides test data factories for the Tourbook API.
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t)
//	admin := f.CreateAdmin(t)
//	tour := f.CreateTour(t)
//	f.CreateReview(t, tour, user, 4)
//
// Users are created with DefaultPassword hashed at bcrypt.MinCost.
package fixtures
