package bootstrap

import (
	"context"
	"log"

	"github.com/manforhire/contractor-api/internal/auth"
	"github.com/manforhire/contractor-api/internal/config"
	"github.com/manforhire/contractor-api/internal/models"
	"github.com/manforhire/contractor-api/internal/store"
)

// Seed populates an empty store on startup: the default service catalog
// when no services exist, and one admin account when no admins exist.
// Both checks are keyed on emptiness, so repeat startups are no-ops.
func Seed(ctx context.Context, st store.Store, cfg *config.Config) error {
	if err := seedServices(ctx, st); err != nil {
		return err
	}
	return seedAdmin(ctx, st, cfg)
}

func seedServices(ctx context.Context, st store.Store) error {
	count, err := st.CountServices(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, svc := range defaultServices() {
		svc := svc
		if err := st.CreateService(ctx, &svc); err != nil {
			return err
		}
	}
	log.Printf("seeded %d default services", len(defaultServices()))
	return nil
}

func seedAdmin(ctx context.Context, st store.Store, cfg *config.Config) error {
	count, err := st.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.AdminUser{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := st.CreateAdmin(ctx, &admin); err != nil {
		return err
	}

	log.Printf("default admin user created: username=%s email=%s password=%s",
		cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	log.Printf("*** PLEASE CHANGE THE DEFAULT PASSWORD AFTER FIRST LOGIN ***")
	return nil
}

func defaultServices() []models.Service {
	return []models.Service{
		{Name: "Plumbing Repair", Description: "Fix leaks, unclog drains, repair fixtures", Category: "plumbing", BasePrice: 75.00, Unit: "per hour", IsActive: true},
		{Name: "Electrical Work", Description: "Wiring, outlet installation, lighting fixtures", Category: "electrical", BasePrice: 85.00, Unit: "per hour", IsActive: true},
		{Name: "Carpentry", Description: "Custom woodwork, repairs, installations", Category: "carpentry", BasePrice: 65.00, Unit: "per hour", IsActive: true},
		{Name: "Painting", Description: "Interior and exterior painting services", Category: "painting", BasePrice: 45.00, Unit: "per hour", IsActive: true},
		{Name: "Lawn Care", Description: "Mowing, trimming, landscaping", Category: "landscaping", BasePrice: 40.00, Unit: "per hour", IsActive: true},
		{Name: "Appliance Repair", Description: "Fix washers, dryers, refrigerators, dishwashers", Category: "appliance", BasePrice: 80.00, Unit: "per service call", IsActive: true},
		{Name: "Furniture Assembly", Description: "IKEA and other furniture assembly", Category: "assembly", BasePrice: 50.00, Unit: "per item", IsActive: true},
		{Name: "General Handyman", Description: "Various small repairs and odd jobs", Category: "general", BasePrice: 55.00, Unit: "per hour", IsActive: true},
	}
}
