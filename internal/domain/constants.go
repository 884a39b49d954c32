package domain

// Горизонт планирования
const (
	// HorizonDays слот можно создать на дату из [today, today+HorizonDays]
	HorizonDays = 7

	// CalendarDays количество дней в сетке календаря [today .. today+CalendarDays-1]
	CalendarDays = 7
)

// Business validation constants
const (
	MinCapacity       = 1
	MaxCapacity       = 100
	MinPricePerPerson = 0
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
