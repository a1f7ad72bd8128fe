package knowledge

import (
	"fmt"
	"strings"

	"github.com/elderwell/platform/pkg/common/models"
)

var (
	specializations = []string{
		"General Practitioner", "Cardiologist", "Dermatologist", "Neurologist",
		"Pediatrician", "Orthopedist", "Ophthalmologist", "Psychiatrist",
		"Dentist", "ENT Specialist", "Pulmonologist", "Gastroenterologist",
	}

	hospitals = []string{
		"City General Hospital", "Metro Health Center", "Sunrise Medical",
		"Golden Heart Hospital", "Care Plus Clinic", "Wellness Hospital",
		"Prime Medical Center", "Hope Hospital", "Life Care Medical",
	}

	doctorFirstNames = []string{"James", "Sarah", "Michael", "Emily", "David", "Lisa", "Robert", "Anna", "William", "Maria"}
	doctorLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Wilson", "Lee"}
)

// SeedRoster builds the deterministic starter roster of care providers.
// Thirty doctors cycle through the specialization list so every specialty
// has coverage.
func SeedRoster() []models.Doctor {
	availability := map[string][]string{
		"monday":    {"09:00-12:00", "14:00-17:00"},
		"tuesday":   {"09:00-12:00", "14:00-17:00"},
		"wednesday": {"09:00-12:00"},
		"thursday":  {"09:00-12:00", "14:00-17:00"},
		"friday":    {"09:00-12:00", "14:00-17:00"},
	}

	doctors := make([]models.Doctor, 0, 30)
	for i := 0; i < 30; i++ {
		firstName := doctorFirstNames[i%len(doctorFirstNames)]
		lastName := doctorLastNames[(i/len(doctorFirstNames)+i)%len(doctorLastNames)]

		doctors = append(doctors, models.Doctor{
			Name:            fmt.Sprintf("Dr. %s %s", firstName, lastName),
			Specialization:  specializations[i%len(specializations)],
			Hospital:        hospitals[i%len(hospitals)],
			Location:        "Medical District",
			ExperienceYears: 5 + i%20,
			Rating:          3.5 + float64(i%16)/10,
			ConsultationFee: (50 + i*3%100) * 1000,
			Availability:    availability,
			Phone:           fmt.Sprintf("+62 812-%04d-%04d", 1000+i*37%9000, 1000+i*91%9000),
			Email:           fmt.Sprintf("%s.%s@hospital.com", strings.ToLower(firstName), strings.ToLower(lastName)),
		})
	}
	return doctors
}
