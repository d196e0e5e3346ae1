package main

import (
	"log"

	"spa-booking-server/database"
	"spa-booking-server/models"
)

// seedVenues inserts the starter venue catalog. Safe to run repeatedly;
// existing venues are left untouched.
func seedVenues() error {
	db := database.GetDB()

	venues := []struct {
		venue      models.Venue
		treatments []models.Treatment
	}{
		{
			venue: models.Venue{
				Name:         "Riad Almas Spa",
				City:         "Marrakech",
				Country:      "Morocco",
				Address:      "12 Derb El Ferrane, Médina",
				CurrencyCode: "MAD",
				ContactEmail: "spa@riadalmas.example",
				IsActive:     true,
				SortOrder:    1,
			},
			treatments: []models.Treatment{
				{Name: "Hammam traditionnel", Description: "Gommage au savon noir et rinçage à l'eau de rose", DurationMinutes: 60, Price: 450, IsActive: true, SortOrder: 1},
				{Name: "Massage à l'huile d'argan", Description: "Massage relaxant du corps entier", DurationMinutes: 90, Price: 700, IsActive: true, SortOrder: 2},
				{Name: "Soin du visage au ghassoul", DurationMinutes: 45, Price: 350, IsActive: true, SortOrder: 3},
			},
		},
		{
			venue: models.Venue{
				Name:         "Marina Bay Wellness",
				City:         "Dubai",
				Country:      "United Arab Emirates",
				Address:      "Al Marsa Street, Dubai Marina",
				CurrencyCode: "AED",
				ContactEmail: "frontdesk@marinabaywellness.example",
				IsActive:     true,
				SortOrder:    2,
			},
			treatments: []models.Treatment{
				{Name: "Deep tissue massage", DurationMinutes: 60, Price: 420, IsActive: true, SortOrder: 1},
				{Name: "Hot stone therapy", DurationMinutes: 75, Price: 520, IsActive: true, SortOrder: 2},
				{Name: "Couples retreat package", Description: "Side-by-side massage with aromatherapy", DurationMinutes: 120, Price: 1100, IsActive: true, SortOrder: 3},
			},
		},
		{
			venue: models.Venue{
				Name:         "Le Jardin Secret",
				City:         "Paris",
				Country:      "France",
				Address:      "8 Rue des Capucines, 75002",
				CurrencyCode: "EUR",
				ContactEmail: "contact@jardinsecret.example",
				IsActive:     true,
				SortOrder:    3,
			},
			treatments: []models.Treatment{
				{Name: "Massage suédois", DurationMinutes: 60, Price: 95, IsActive: true, SortOrder: 1},
				{Name: "Réflexologie plantaire", DurationMinutes: 45, Price: 70, IsActive: true, SortOrder: 2},
			},
		},
	}

	for _, entry := range venues {
		var existing models.Venue
		if err := db.Where("name = ?", entry.venue.Name).First(&existing).Error; err == nil {
			log.Printf("⏭️  Venue already exists: %s", entry.venue.Name)
			continue
		}

		venue := entry.venue
		if err := db.Create(&venue).Error; err != nil {
			log.Printf("Failed to create venue %s: %v", venue.Name, err)
			return err
		}
		for _, treatment := range entry.treatments {
			treatment.VenueID = venue.ID
			if err := db.Create(&treatment).Error; err != nil {
				log.Printf("Failed to create treatment %s: %v", treatment.Name, err)
				return err
			}
		}
		log.Printf("✅ Created venue: %s (%d treatments)", venue.Name, len(entry.treatments))
	}

	return nil
}
