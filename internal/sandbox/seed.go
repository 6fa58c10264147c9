package sandbox

import (
	"github.com/shopspring/decimal"

	"github.com/coursestore/storefront/internal/core/domain"
)

// SeedCourses is the catalog the sandbox starts with.
func SeedCourses() []domain.Course {
	return []domain.Course{
		{
			ID:          1,
			Title:       "Python for Beginners",
			Description: "Variables, control flow and functions from scratch.",
			Price:       decimal.NewFromInt(5000),
			Instructor:  "Anna Petrova",
			Duration:    "6 weeks",
			Level:       "Beginner",
			IsActive:    true,
		},
		{
			ID:          2,
			Title:       "Web Development with React",
			Description: "Components, hooks and routing for single page apps.",
			Price:       decimal.NewFromInt(4500),
			Instructor:  "Ivan Sokolov",
			Duration:    "8 weeks",
			Level:       "Intermediate",
			IsActive:    true,
		},
		{
			ID:          3,
			Title:       "Data Science Essentials",
			Description: "Pandas, visualisation and a first look at models.",
			Price:       decimal.NewFromInt(7000),
			Instructor:  "Maria Ivanova",
			Duration:    "10 weeks",
			Level:       "Intermediate",
			IsActive:    true,
		},
		{
			ID:          4,
			Title:       "Distributed Systems in Go",
			Description: "Consensus, replication and failure handling.",
			Price:       decimal.RequireFromString("8999.99"),
			Instructor:  "Dmitry Orlov",
			Duration:    "12 weeks",
			Level:       "Advanced",
			IsActive:    true,
		},
		{
			ID:       5,
			Title:    "UX Design Basics",
			Price:    decimal.NewFromInt(3000),
			Level:    "Beginner",
			IsActive: false,
		},
	}
}
