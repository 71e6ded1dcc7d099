package bootstrap

import (
	"log"
	"os"

	"github.com/askup-dev/askup-backend/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Profile{},
		&entity.Question{},
		&entity.Answer{},
		&entity.Conversation{},
		&entity.ConversationParticipant{},
		&entity.ConversationMessage{},
		&entity.Notification{},
		&entity.PointLedger{},
		&entity.Achievement{},
		&entity.AchievementUnlock{},
		&entity.StreakRecord{},
		&entity.ActivityLog{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []entity.Role{
		{Name: entity.RoleAdmin, Description: "Campus staff who answer and manage questions"},
		{Name: entity.RoleStudent, Description: "Student"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&entity.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates a development admin account. Only runs outside
// production.
func SeedAdminUser(db *gorm.DB) error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}

	var adminRole entity.Role
	if err := db.Where("name = ?", entity.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&entity.User{}).
		Where("email = ?", "admin@askup.dev").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := os.Getenv("ADMIN_SEED_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Username:     "admin",
		Email:        "admin@askup.dev",
		PasswordHash: string(hashedPasswordBytes),
		FirstName:    "Admin",
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Seeded development admin user")
	return nil
}

// SeedDefaultAchievements loads the catalog. Existing entries are left
// untouched so operators can tune thresholds without the seed reverting them.
func SeedDefaultAchievements(db *gorm.DB) error {
	defaults := []entity.Achievement{
		{Name: "First Question", Description: "Asked your first question", Icon: "fas fa-question-circle", PointsRequired: 0, Category: entity.AchievementCategoryQuestions, Color: "blue"},
		{Name: "First Answer", Description: "Gave your first answer", Icon: "fas fa-comment-dots", PointsRequired: 0, Category: entity.AchievementCategoryAnswers, Color: "green"},
		{Name: "Curious Mind", Description: "Earned 50 points from asking questions", Icon: "fas fa-lightbulb", PointsRequired: 50, Category: entity.AchievementCategoryQuestions, Color: "blue"},
		{Name: "Helper", Description: "Earned 100 points from answering", Icon: "fas fa-hands-helping", PointsRequired: 100, Category: entity.AchievementCategoryAnswers, Color: "green"},
		{Name: "Consistent Learner", Description: "Earned 35 points from daily streaks", Icon: "fas fa-calendar-check", PointsRequired: 35, Category: entity.AchievementCategoryConsistency, Color: "purple"},
		{Name: "Expert", Description: "Reached 2500 total points", Icon: "fas fa-medal", PointsRequired: 2500, Category: entity.AchievementCategoryExpertise, Color: "gold"},
		{Name: "Master", Description: "Reached 10000 total points", Icon: "fas fa-crown", PointsRequired: 10000, Category: entity.AchievementCategoryExpertise, Color: "gold"},
		{Name: "Community Builder", Description: "Reached 500 total points helping the community", Icon: "fas fa-users", PointsRequired: 500, Category: entity.AchievementCategoryCommunity, Color: "orange"},
	}

	for _, achievement := range defaults {
		var count int64
		if err := db.Model(&entity.Achievement{}).
			Where("name = ?", achievement.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			achievement.IsActive = true
			if err := db.Create(&achievement).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
