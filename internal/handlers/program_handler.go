// edufy-erp/internal/handlers/program_handler.go
package handlers

import (
	"errors"
	"net/http"

	"edufy-erp/config"
	"edufy-erp/internal/pricing"
	"edufy-erp/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PackInput is one priced bundle of the program form.
type PackInput struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price"`
	PriceAnnual float64  `json:"priceAnnual"`
	PromoPrice  *float64 `json:"promoPrice"`
}

// GroupInput is one schedulable slot of the program form.
type GroupInput struct {
	Name string `json:"name" binding:"required"`
	Day  string `json:"day"`
	Time string `json:"time"`
}

// GradeInput groups slots in the program form.
type GradeInput struct {
	Name   string       `json:"name" binding:"required"`
	Groups []GroupInput `json:"groups" binding:"dive"`
}

// ProgramInput carries the full program tree as edited in the catalog
// screen.
type ProgramInput struct {
	Name   string       `json:"name" binding:"required"`
	Type   string       `json:"type"`
	Packs  []PackInput  `json:"packs" binding:"dive"`
	Grades []GradeInput `json:"grades" binding:"dive"`
}

func buildProgram(input *ProgramInput, orgID *uint) models.Program {
	program := models.Program{
		OrgID: orgID,
		Name:  input.Name,
		Type:  input.Type,
	}
	for _, p := range input.Packs {
		program.Packs = append(program.Packs, models.Pack{
			Name:        p.Name,
			Price:       p.Price,
			PriceAnnual: p.PriceAnnual,
			PromoPrice:  p.PromoPrice,
		})
	}
	for _, g := range input.Grades {
		grade := models.Grade{Name: g.Name}
		for _, gr := range g.Groups {
			grade.Groups = append(grade.Groups, models.Group{
				Name: gr.Name,
				Day:  gr.Day,
				Time: gr.Time,
			})
		}
		program.Grades = append(program.Grades, grade)
	}
	return program
}

func CreateProgramHandler(c *gin.Context) {
	var input ProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	program := buildProgram(&input, orgIDFromContext(c))
	if err := config.DB.Create(&program).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create program: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, program)
}

func ListProgramsHandler(c *gin.Context) {
	var programs []models.Program
	if err := config.DB.Preload("Packs").Preload("Grades.Groups").Order("name ASC").Find(&programs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch programs"})
		return
	}
	c.JSON(http.StatusOK, programs)
}

func GetProgramHandler(c *gin.Context) {
	id := c.Param("id")
	var program models.Program
	if err := config.DB.Preload("Packs").Preload("Grades.Groups").First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch program"})
		return
	}
	c.JSON(http.StatusOK, program)
}

// UpdateProgramHandler edits the program tree in one transaction. Packs,
// grades and groups are matched to existing rows by name and updated in
// place; only rows absent from the form are removed. Keeping the ids stable
// matters because enrollments reference grade and group ids.
func UpdateProgramHandler(c *gin.Context) {
	id := c.Param("id")
	var existing models.Program
	if err := config.DB.Preload("Packs").Preload("Grades.Groups").First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	var input ProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"name": input.Name,
			"type": input.Type,
		}).Error; err != nil {
			return err
		}
		if err := syncPacks(tx, &existing, input.Packs); err != nil {
			return err
		}
		return syncGrades(tx, &existing, input.Grades)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update program: " + err.Error()})
		return
	}

	var program models.Program
	config.DB.Preload("Packs").Preload("Grades.Groups").First(&program, id)
	c.JSON(http.StatusOK, program)
}

func syncPacks(tx *gorm.DB, program *models.Program, inputs []PackInput) error {
	current := make(map[string]*models.Pack, len(program.Packs))
	for i := range program.Packs {
		current[program.Packs[i].Name] = &program.Packs[i]
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		seen[in.Name] = true
		if pack, ok := current[in.Name]; ok {
			if err := tx.Model(pack).Updates(map[string]interface{}{
				"price":        in.Price,
				"price_annual": in.PriceAnnual,
				"promo_price":  in.PromoPrice,
			}).Error; err != nil {
				return err
			}
			continue
		}
		pack := models.Pack{
			ProgramID:   program.ID,
			Name:        in.Name,
			Price:       in.Price,
			PriceAnnual: in.PriceAnnual,
			PromoPrice:  in.PromoPrice,
		}
		if err := tx.Create(&pack).Error; err != nil {
			return err
		}
	}

	for name, pack := range current {
		if !seen[name] {
			if err := tx.Delete(pack).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func syncGrades(tx *gorm.DB, program *models.Program, inputs []GradeInput) error {
	current := make(map[string]*models.Grade, len(program.Grades))
	for i := range program.Grades {
		current[program.Grades[i].Name] = &program.Grades[i]
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		seen[in.Name] = true
		grade, ok := current[in.Name]
		if !ok {
			grade = &models.Grade{ProgramID: program.ID, Name: in.Name}
			if err := tx.Create(grade).Error; err != nil {
				return err
			}
		}
		if err := syncGroups(tx, grade, in.Groups); err != nil {
			return err
		}
	}

	for name, grade := range current {
		if seen[name] {
			continue
		}
		if err := tx.Where("grade_id = ?", grade.ID).Delete(&models.Group{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(grade).Error; err != nil {
			return err
		}
	}
	return nil
}

func syncGroups(tx *gorm.DB, grade *models.Grade, inputs []GroupInput) error {
	current := make(map[string]*models.Group, len(grade.Groups))
	for i := range grade.Groups {
		current[grade.Groups[i].Name] = &grade.Groups[i]
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		seen[in.Name] = true
		if group, ok := current[in.Name]; ok {
			if err := tx.Model(group).Updates(map[string]interface{}{
				"day":  in.Day,
				"time": in.Time,
			}).Error; err != nil {
				return err
			}
			continue
		}
		group := models.Group{GradeID: grade.ID, Name: in.Name, Day: in.Day, Time: in.Time}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
	}

	for name, group := range current {
		if !seen[name] {
			if err := tx.Delete(group).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func DeleteProgramHandler(c *gin.Context) {
	id := c.Param("id")

	var enrollmentCount int64
	config.DB.Model(&models.Enrollment{}).Where("program_id = ?", id).Count(&enrollmentCount)
	if enrollmentCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Program has enrollments and cannot be deleted"})
		return
	}

	result := config.DB.Delete(&models.Program{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete program"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}

// QuoteProgramHandler previews the pricing for a pack and negotiated price,
// so the wizard can show the discount before anything is saved. Amount and
// percent are both clamped at zero for above-list prices, matching what is
// persisted on submission.
func QuoteProgramHandler(c *gin.Context) {
	id := c.Param("id")
	var program models.Program
	if err := config.DB.Preload("Packs").First(&program, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}

	var input struct {
		PackName        string  `json:"packName" binding:"required"`
		NegotiatedPrice float64 `json:"negotiatedPrice" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if program.FindPack(input.PackName) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pack not found in program"})
		return
	}

	standard := pricing.StandardTuition(&program, input.PackName)
	discount := pricing.ClampDiscount(pricing.DiscountAmount(standard, input.NegotiatedPrice))
	c.JSON(http.StatusOK, gin.H{
		"standardTuition": standard,
		"negotiatedPrice": input.NegotiatedPrice,
		"discountAmount":  discount,
		"discountPercent": pricing.DiscountPercent(standard, standard-discount),
	})
}
