// Package catalog holds the fixed seed data the dashboard starts from.
package catalog

import "github.com/tafadzwa-coder-sw23/ubuntu-relief/internal/domain"

// Needs returns a fresh copy of the seed need board.
func Needs() []domain.Need {
	return []domain.Need{
		{
			ID:           "1",
			Title:        "Oxygen Concentrators for Mutare General",
			Organization: "Mutare Health Fund",
			Location:     "Mutare, Manicaland",
			Category:     domain.CategoryMedical,
			Urgency:      domain.UrgencyHigh,
			Description:  "Urgent request for 50 oxygen concentrators to support the isolation ward due to rising respiratory cases.",
			Raised:       12500,
			Target:       25000,
			Donations: []domain.Donation{
				{ID: "d101", DonorName: "Econet Global", Amount: 5000, Date: "2023-11-15"},
				{ID: "d102", DonorName: "Sarah Moyo", Amount: 200, Date: "2023-11-18"},
				{ID: "d103", DonorName: domain.AnonymousDonor, Amount: 500, Date: "2023-11-20", Anonymous: true},
				{ID: "d104", DonorName: "Diaspora Relief UK", Amount: 2000, Date: "2023-11-22"},
			},
		},
		{
			ID:           "2",
			Title:        "Food Parcels for Mbare High-Density",
			Organization: "Mbare Community Trust",
			Location:     "Mbare, Harare",
			Category:     domain.CategoryFood,
			Urgency:      domain.UrgencyHigh,
			Description:  "Providing maize meal, cooking oil, and beans to 500 vulnerable families affected by lockdown restrictions.",
			Raised:       3000,
			Target:       5000,
			Donations: []domain.Donation{
				{ID: "d201", DonorName: "Tinashe K.", Amount: 50, Date: "2023-11-25"},
				{ID: "d202", DonorName: domain.AnonymousDonor, Amount: 1000, Date: "2023-11-26", Anonymous: true},
				{ID: "d203", DonorName: "Local Spar Market", Amount: 1500, Date: "2023-11-27"},
			},
		},
		{
			ID:           "3",
			Title:        "Remote Learning Tablets for Rural Schools",
			Organization: "Educate Zimbabwe",
			Location:     "Gokwe, Midlands",
			Category:     domain.CategoryEducation,
			Urgency:      domain.UrgencyMedium,
			Description:  "Distributing solar-powered tablets pre-loaded with syllabus content for children in Gokwe North.",
			Raised:       8000,
			Target:       40000,
			Donations: []domain.Donation{
				{ID: "d301", DonorName: "Tech for Africa", Amount: 5000, Date: "2023-10-10"},
				{ID: "d302", DonorName: "James & Linda", Amount: 200, Date: "2023-10-15"},
			},
		},
		{
			ID:           "4",
			Title:        "PPE Kits for Frontline Workers",
			Organization: "Bulawayo Medical Response",
			Location:     "Bulawayo, Matabeleland",
			Category:     domain.CategoryMedical,
			Urgency:      domain.UrgencyHigh,
			Description:  "N95 masks, gloves, and gowns for Mpilo Central Hospital staff.",
			Raised:       15000,
			Target:       15000,
			Donations: []domain.Donation{
				{ID: "d401", DonorName: "Health Min Grant", Amount: 10000, Date: "2023-11-01"},
				{ID: "d402", DonorName: domain.AnonymousDonor, Amount: 5000, Date: "2023-11-05", Anonymous: true},
			},
		},
		{
			ID:           "5",
			Title:        "Clean Water Borehole Drilling",
			Organization: "Water for Life Africa",
			Location:     "Chitungwiza, Harare Province",
			Category:     domain.CategoryHygiene,
			Urgency:      domain.UrgencyHigh,
			Description:  "Drilling 3 new boreholes to ensure sanitation and handwashing capabilities in high-density zones.",
			Raised:       4500,
			Target:       12000,
			Donations: []domain.Donation{
				{ID: "d501", DonorName: "Rotary Club Harare", Amount: 3000, Date: "2023-12-01"},
				{ID: "d502", DonorName: "Tendai Biti", Amount: 100, Date: "2023-12-02"},
				{ID: "d503", DonorName: domain.AnonymousDonor, Amount: 50, Date: "2023-12-05", Anonymous: true},
			},
		},
	}
}

// Dashboard returns the static dashboard figures.
func Dashboard() domain.Dashboard {
	return domain.Dashboard{
		Stats: []domain.Stat{
			{Label: "Active NGOs", Value: "142", Change: "+12%", Positive: true},
			{Label: "Total Donations (USD)", Value: "$1.2M", Change: "+8.5%", Positive: true},
			{Label: "Critical Zones", Value: "4", Change: "-2", Positive: true},
			{Label: "Volunteers Mobilized", Value: "3,450", Change: "+24%", Positive: true},
		},
		Chart: []domain.RegionPoint{
			{Name: "Harare", Active: 400, Recovered: 240, Resources: 80},
			{Name: "Bulawayo", Active: 300, Recovered: 139, Resources: 60},
			{Name: "Mutare", Active: 200, Recovered: 580, Resources: 50},
			{Name: "Gweru", Active: 278, Recovered: 390, Resources: 70},
			{Name: "Masvingo", Active: 189, Recovered: 480, Resources: 40},
			{Name: "Vic Falls", Active: 100, Recovered: 200, Resources: 90},
		},
		Alerts: []domain.Alert{
			{
				Title:  "Vaccination Drive - Phase 4",
				Detail: "Targeting rural districts in Manicaland and Masvingo.",
				Level:  domain.AlertActive,
				Posted: "2 hours ago",
			},
			{
				Title:  "Localized Lockdown Warning",
				Detail: "Increased restrictions in Kwekwe due to variant detection.",
				Level:  domain.AlertUrgent,
				Posted: "6 hours ago",
			},
		},
	}
}

// ChatGreeting opens every new chat transcript.
var ChatGreeting = domain.ChatMessage{
	Role: domain.RoleModel,
	Text: "Mhoro! Hello! I am the Ubuntu Relief Assistant. How can I help you today?",
}
