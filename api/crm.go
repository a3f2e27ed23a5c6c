package api

import (
	"github.com/labstack/echo/v4"

	"backstage-api/domain"
)

// customerView is a CRM record enriched with its computed loyalty standing.
type customerView struct {
	domain.Customer
	LoyaltyTier   string `json:"loyaltyTier"`
	LoyaltyPoints int    `json:"loyaltyPoints"`
}

func registerCRM(g *echo.Group, store CRMStore, auth Authenticator) {
	registerCRUD(g, "/customers", auth, crudOps[domain.Customer]{
		fetch:  store.FetchCustomers,
		insert: store.InsertCustomer,
		update: store.UpdateCustomer,
		remove: store.DeleteCustomer,
		setID:  func(rec *domain.Customer, id string) { rec.ID = id },
		validate: func(rec domain.Customer) string {
			if rec.Name == "" {
				return "name is required"
			}
			return ""
		},
		view: func(rec domain.Customer) any {
			return customerView{
				Customer:      rec,
				LoyaltyTier:   domain.TierFor(rec.LifetimeSpend).Name,
				LoyaltyPoints: domain.PointsFor(rec.LifetimeSpend, domain.DefaultPointsRate),
			}
		},
	})
}
