package models

type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Condition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type OperationalStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
