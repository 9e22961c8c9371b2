package models

import "database/sql"

type Project struct {
	ID             int64
	Code           sql.NullString
	Name           string
	ContractYear   int32
	Contractor     sql.NullString
	TotalAmount    string
	RP             string
	SGP            string
	MEN            string
	SGR            string
	FundingSources sql.NullString
}

type Municipality struct {
	ID   int64
	Name string
}

type Institution struct {
	ID             int64
	Name           string
	MunicipalityID int64
}

type Site struct {
	ID            int64
	Name          string
	InstitutionID int64
}

type Indicator struct {
	ID   int64
	Name string
}

type Activity struct {
	ID          int64
	ProjectID   int64
	Description string
}
