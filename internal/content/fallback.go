package content

import "campusportal/internal/api"

// Fallback content rendered when the backend cannot be reached and nothing
// is cached. Mirrors the defaults seeded into a fresh backend so the public
// site never shows an empty shell.

func FallbackHeroImages() []api.HeroImage {
	return []api.HeroImage{
		{Title: "Welcome to Our Campus", Description: "Shaping careers through quality technical education", DisplayOrder: 1, IsActive: true},
	}
}

func FallbackStats() []api.CampusStat {
	return []api.CampusStat{
		{StatName: "Students", StatValue: "2000+", DisplayOrder: 1},
		{StatName: "Programs", StatValue: "12", DisplayOrder: 2},
		{StatName: "Faculty", StatValue: "80+", DisplayOrder: 3},
		{StatName: "Years of Excellence", StatValue: "35", DisplayOrder: 4},
	}
}

func FallbackContact() []api.ContactInfo {
	return []api.ContactInfo{
		{OfficeName: "Main Office", Address: "College Road, Main Campus", Phone: "+91 00000 00000", Email: "info@campus.edu", DisplayOrder: 1},
	}
}
