// edufy-erp/models/program.go
package models

import "gorm.io/gorm"

// ProgramTypeRegular selects the annual price of a pack instead of the
// base (monthly) price when computing standard tuition.
const ProgramTypeRegular = "Regular Program"

// Program is a course offering with priced packs and a grade/group tree.
// Read-only from the enrollment workflow's perspective.
type Program struct {
	gorm.Model
	OrgID *uint   `json:"orgId" gorm:"index"`
	Name  string  `json:"name" gorm:"not null"`
	Type  string  `json:"type"`
	Packs []Pack  `json:"packs" gorm:"foreignKey:ProgramID"`
	Grades []Grade `json:"grades" gorm:"foreignKey:ProgramID"`
}

// Pack is a priced bundle within a program (e.g. monthly vs annual access).
type Pack struct {
	gorm.Model
	ProgramID   uint     `json:"programId" gorm:"index"`
	Name        string   `json:"name" gorm:"not null"`
	Price       float64  `json:"price"`
	PriceAnnual float64  `json:"priceAnnual"`
	PromoPrice  *float64 `json:"promoPrice,omitempty"`
}

// Grade groups the weekly slots of a program (e.g. "CM1-CM2").
type Grade struct {
	gorm.Model
	ProgramID uint    `json:"programId" gorm:"index"`
	Name      string  `json:"name" gorm:"not null"`
	Groups    []Group `json:"groups" gorm:"foreignKey:GradeID"`
}

// Group is one schedulable slot inside a grade.
type Group struct {
	gorm.Model
	GradeID uint   `json:"gradeId" gorm:"index"`
	Name    string `json:"name" gorm:"not null"`
	Day     string `json:"day"`
	Time    string `json:"time"`
}

// FindGroup looks a group up by id across all grades of the program.
func (p *Program) FindGroup(groupID uint) *Group {
	for i := range p.Grades {
		for j := range p.Grades[i].Groups {
			if p.Grades[i].Groups[j].ID == groupID {
				return &p.Grades[i].Groups[j]
			}
		}
	}
	return nil
}

// FindPack returns the pack with the given name, or nil.
func (p *Program) FindPack(name string) *Pack {
	for i := range p.Packs {
		if p.Packs[i].Name == name {
			return &p.Packs[i]
		}
	}
	return nil
}
