package entity

type FAQ struct {
	ID       string
	Question string
	Answer   string
	Category string
}
