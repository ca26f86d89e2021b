package domain

type Country struct {
	ID      int64  `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	ISOCode string `db:"iso_code" json:"iso_code"`
	IsValid bool   `db:"is_valid" json:"is_valid"`
}

type DestinationType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type TravellerType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
