// Command seed wipes and repopulates the database with demo data: teachers
// with course catalogs, students with enrollments, admins, and chat rooms.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gspp-platform/learning-service/internal/config"
	"github.com/gspp-platform/learning-service/internal/models"
	"github.com/gspp-platform/learning-service/internal/repositories/postgres"
	"github.com/gspp-platform/learning-service/pkg"
)

const (
	numTeachers        = 20
	numStudents        = 127
	numAdmins          = 3
	coursesPerTeacher  = 10
	seedPassword       = "password"
	defaultSeedBalance = 30000
	defaultCardExpiry  = "12/12/2027"
	teacherAvatar      = "teacher_avatar.jpg"
	studentAvatar      = "student_avatar.jpg"
	adminAvatar        = "admin_avatar.jpg"
)

var categories = []string{"Graphic Design", "Programming", "Accounting"}

var categoryThumbs = map[string]string{
	"Graphic Design": "/src/assets/courses/thumbs/gd.jpg",
	"Programming":    "/src/assets/courses/thumbs/prog.jpeg",
	"Accounting":     "/src/assets/courses/thumbs/acc.jpeg",
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := run(context.Background(), db, logger); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	logger.Info("Seeding complete")
}

func run(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})

	if err := wipe(db); err != nil {
		return fmt.Errorf("failed to wipe tables: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}
	password := string(hash)

	teachers := make([]*models.User, 0, numTeachers)
	for i := 0; i < numTeachers; i++ {
		user := randomUser(models.RoleTeacher, password)
		bio := "Teacher bio"
		user.Bio = &bio
		user.BlueMark = rand.Intn(2) == 0
		avatar := teacherAvatar
		user.Avatar = &avatar

		if err := repo.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed teacher: %w", err)
		}
		teachers = append(teachers, user)
	}
	logger.Info("Seeded teachers", "count", len(teachers))

	students := make([]*models.User, 0, numStudents)
	for i := 0; i < numStudents; i++ {
		user := randomUser(models.RoleStudent, password)
		avatar := studentAvatar
		user.Avatar = &avatar

		if err := repo.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed student: %w", err)
		}
		students = append(students, user)
	}
	logger.Info("Seeded students", "count", len(students))

	for i := 0; i < numAdmins; i++ {
		user := randomUser(models.RoleAdmin, password)
		avatar := adminAvatar
		user.Avatar = &avatar

		if err := repo.User().Create(ctx, user); err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
	}
	logger.Info("Seeded admins", "count", numAdmins)

	var courses []*models.Course
	for _, teacher := range teachers {
		for i := 0; i < coursesPerTeacher; i++ {
			category := categories[rand.Intn(len(categories))]
			thumb := categoryThumbs[category]

			course := &models.Course{
				Title:       fmt.Sprintf("Course Title %d", i+1),
				Description: "Course description",
				Category:    category,
				Thumb:       &thumb,
				Price:       int64(rand.Intn(451) + 50),
				OwnerID:     teacher.ID,
				Rating:      float64(rand.Intn(5) + 1),
			}
			if err := repo.Catalog().CreateCourse(ctx, course); err != nil {
				return fmt.Errorf("failed to seed course: %w", err)
			}

			numModules := rand.Intn(5) + 6
			for j := 0; j < numModules; j++ {
				module := &models.Module{
					Title:       fmt.Sprintf("Module %d", j+1),
					Video:       "https://example.com/video",
					Description: "Module description",
					CourseID:    &course.ID,
					Position:    j,
				}
				if err := repo.Catalog().CreateModule(ctx, module); err != nil {
					return fmt.Errorf("failed to seed module: %w", err)
				}
			}

			courses = append(courses, course)
		}
	}
	logger.Info("Seeded courses", "count", len(courses))

	// Enroll every student in a few random courses, link them to the owning
	// teachers, and backfill the ledger, comments and reviews for each
	// purchase.
	var ledgerRows, commentRows, reviewRows int
	for _, student := range students {
		numEnrolled := rand.Intn(4) + 2
		for i := 0; i < numEnrolled; i++ {
			course := courses[rand.Intn(len(courses))]
			if err := repo.Catalog().UpsertEnrollment(ctx, student.ID, course.ID); err != nil {
				return fmt.Errorf("failed to seed enrollment: %w", err)
			}
			if err := repo.Catalog().UpsertTeacherStudent(ctx, course.OwnerID, student.ID); err != nil {
				return fmt.Errorf("failed to seed teacher-student edge: %w", err)
			}

			txn := &models.Transaction{
				Kind:     models.TransactionKindTransfer,
				PayerID:  student.ID,
				PayeeID:  course.OwnerID,
				CourseID: &course.ID,
				Amount:   course.Price,
				Status:   models.TransactionStatusCompleted,
			}
			if err := repo.Ledger().Create(ctx, txn); err != nil {
				return fmt.Errorf("failed to seed ledger row: %w", err)
			}
			randomizeCreatedAt(db, "transactions", txn.ID)
			ledgerRows++

			if rand.Intn(2) == 0 {
				comment := &models.Comment{
					OwnerID:  student.ID,
					CourseID: course.ID,
					Text:     "Comment text",
				}
				if err := repo.Social().CreateComment(ctx, comment); err != nil {
					return fmt.Errorf("failed to seed comment: %w", err)
				}
				commentRows++
			}

			if rand.Intn(3) == 0 {
				already, err := repo.Social().HasReviewed(ctx, student.ID, course.ID)
				if err != nil {
					return fmt.Errorf("failed to check seeded review: %w", err)
				}
				if already {
					continue
				}
				review := &models.Review{
					Star:     rand.Intn(5) + 1,
					Comment:  "Review comment",
					GiverID:  student.ID,
					CourseID: course.ID,
				}
				if err := repo.Social().CreateReview(ctx, review); err != nil {
					return fmt.Errorf("failed to seed review: %w", err)
				}
				reviewRows++
			}
		}
	}
	logger.Info("Seeded enrollments", "transactions", ledgerRows, "comments", commentRows, "reviews", reviewRows)

	// One chat room per student with a random teacher.
	for _, student := range students {
		teacher := teachers[rand.Intn(len(teachers))]
		if _, _, err := repo.Chat().FindOrCreateRoom(ctx, student.ID, teacher.ID); err != nil {
			return fmt.Errorf("failed to seed chat room: %w", err)
		}
	}
	logger.Info("Seeded chat rooms")

	return nil
}

// randomizeCreatedAt spreads a row's created_at over the time since 2022 so
// seeded history does not cluster on one day. Failures are ignored; the row
// itself already committed.
func randomizeCreatedAt(db *gorm.DB, table string, id uint) {
	start := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := time.Since(start)
	created := start.Add(time.Duration(rand.Int63n(int64(span))))
	db.Table(table).Where("id = ?", id).Update("created_at", created)
}

func wipe(db *gorm.DB) error {
	tables := []interface{}{
		&models.Transaction{},
		&models.ChatRoom{},
		&models.Review{},
		&models.Comment{},
		&models.Enrollment{},
		&models.TeacherStudent{},
		&models.Module{},
		&models.Course{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func randomUser(role models.UserRole, passwordHash string) *models.User {
	username := fmt.Sprintf("%s_%d", lower(role), rand.Intn(100000))
	profile := "@" + username[:4]

	cardType := models.CardVisa
	if rand.Intn(2) == 0 {
		cardType = models.CardMastercard
	}

	return &models.User{
		Username:    username,
		Email:       username + "@example.com",
		Password:    passwordHash,
		Profile:     profile,
		Role:        role,
		CardType:    cardType,
		CardNumber:  randomCardNumber(),
		CVV:         fmt.Sprintf("%03d", rand.Intn(900)+100),
		Balance:     defaultSeedBalance,
		ExpiredDate: defaultCardExpiry,
	}
}

func randomCardNumber() string {
	return fmt.Sprintf("%04d %04d %04d %04d",
		rand.Intn(9000)+1000, rand.Intn(9000)+1000, rand.Intn(9000)+1000, rand.Intn(9000)+1000)
}

func lower(role models.UserRole) string {
	switch role {
	case models.RoleTeacher:
		return "teacher"
	case models.RoleAdmin:
		return "admin"
	default:
		return "student"
	}
}
