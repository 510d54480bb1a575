// edufy-erp/internal/accounts/provisioner.go

// Package accounts auto-provisions login accounts for students and parents
// enrolled through the wizard. Provisioning is best-effort by design: an
// enrollment must never fail because a login could not be created.
package accounts

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"edufy-erp/models"
)

const (
	StudentPasswordLength = 6
	ParentPasswordLength  = 8

	maxLoginAttempts = 10
)

const base36 = "abcdefghijklmnopqrstuvwxyz0123456789"

// UsernameFromName derives a login from a human name: lowercase first
// letter of the first token, a dot, and the lowercase last token.
// "Neil Hamdouch" -> "n.hamdouch"; a single token falls back on itself,
// so "Ali" -> "a.ali". The first letter is decoded as a rune, not a byte,
// so accented names stay valid UTF-8 ("Élodie Martin" -> "é.martin").
func UsernameFromName(fullName string) string {
	tokens := strings.Fields(strings.TrimSpace(fullName))
	if len(tokens) == 0 {
		return ""
	}
	initial, _ := utf8.DecodeRuneInString(tokens[0])
	last := strings.ToLower(tokens[len(tokens)-1])
	return string(unicode.ToLower(initial)) + "." + last
}

// RandomPassword returns a random base36 string of the given length.
func RandomPassword(length int) string {
	b := make([]byte, length)
	max := big.NewInt(int64(len(base36)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		b[i] = base36[n.Int64()]
	}
	return string(b)
}

// Provisioner creates auth accounts and links them back to student records.
type Provisioner struct {
	DB          *gorm.DB
	EmailDomain string
}

// ProvisionStudent creates a login for the student and writes the
// credentials into the student's login_info columns.
func (p *Provisioner) ProvisionStudent(student *models.Student) error {
	info, err := p.createAccount(student.Name, student.Name, models.StudentRoleName, StudentPasswordLength, student.OrgID)
	if err != nil {
		return err
	}
	student.LoginInfo = *info
	return p.DB.Model(student).Updates(map[string]interface{}{
		"login_username":         info.Username,
		"login_email":            info.Email,
		"login_initial_password": info.InitialPassword,
		"login_user_id":          info.UserID,
	}).Error
}

// ProvisionParent creates a guardian login. Callers only invoke it when a
// parent e-mail was supplied. The username derives from the student's full
// name, same as the student account; the numeric-suffix retry keeps the two
// logins distinct.
func (p *Provisioner) ProvisionParent(student *models.Student) error {
	fullName := student.ParentName
	if strings.TrimSpace(fullName) == "" {
		fullName = student.Name
	}
	info, err := p.createAccount(student.Name, fullName, models.ParentRoleName, ParentPasswordLength, student.OrgID)
	if err != nil {
		return err
	}
	student.ParentLoginInfo = *info
	return p.DB.Model(student).Updates(map[string]interface{}{
		"parent_login_username":         info.Username,
		"parent_login_email":            info.Email,
		"parent_login_initial_password": info.InitialPassword,
		"parent_login_user_id":          info.UserID,
	}).Error
}

// ProvisionAll runs both provisionings with isolated failure handling, so a
// parent-account error cannot block the student account or vice versa.
// Errors are logged and swallowed.
func (p *Provisioner) ProvisionAll(student *models.Student) {
	if err := p.ProvisionStudent(student); err != nil {
		slog.Error("Student account provisioning failed", "error", err, "student_id", student.ID)
	}
	if strings.TrimSpace(student.ParentEmail) != "" {
		if err := p.ProvisionParent(student); err != nil {
			slog.Error("Parent account provisioning failed", "error", err, "student_id", student.ID)
		}
	}
}

func (p *Provisioner) createAccount(derivedFrom, fullName, roleName string, passwordLength int, orgID *uint) (*models.LoginInfo, error) {
	username := UsernameFromName(derivedFrom)
	if username == "" {
		return nil, fmt.Errorf("cannot derive a username from %q", derivedFrom)
	}

	password := RandomPassword(passwordLength)
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var role models.Role
	if err := p.DB.Where("name = ?", roleName).FirstOrCreate(&role, models.Role{Name: roleName}).Error; err != nil {
		return nil, err
	}

	// The derived login may already be taken by a namesake; retry with a
	// numeric suffix.
	login := username
	for attempt := 1; attempt <= maxLoginAttempts; attempt++ {
		user := models.User{
			OrgID:    orgID,
			Login:    login,
			Email:    login + "@" + p.EmailDomain,
			FullName: fullName,
			Password: string(hashed),
			Roles:    []models.Role{role},
		}
		err := p.DB.Create(&user).Error
		if err == nil {
			return &models.LoginInfo{
				Username:        login,
				Email:           user.Email,
				InitialPassword: password,
				UserID:          &user.ID,
			}, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		login = fmt.Sprintf("%s%d", username, attempt+1)
	}
	return nil, fmt.Errorf("no free login found for %q after %d attempts", username, maxLoginAttempts)
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint")
}
