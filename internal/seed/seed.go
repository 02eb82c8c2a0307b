package seed

import (
	"fmt"
	"log/slog"
	"os"

	"tribune/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options controls how much demo data gets generated.
type Options struct {
	Users           int  `yaml:"users"`
	Groups          int  `yaml:"groups"`
	Posts           int  `yaml:"posts"`
	CommentsPerPost int  `yaml:"comments_per_post"`
	FollowsPerUser  int  `yaml:"follows_per_user"`
	MaxDays         int  `yaml:"max_days"`
	SkipBcrypt      bool `yaml:"skip_bcrypt"`
	Wipe            bool `yaml:"wipe"`
}

// DefaultOptions is a small preset suitable for local development.
var DefaultOptions = Options{
	Users:           12,
	Groups:          4,
	Posts:           120,
	CommentsPerPost: 2,
	FollowsPerUser:  3,
	MaxDays:         90,
}

// LoadPreset reads seed options from a YAML file. Fields absent from the
// file keep the default preset's values.
func LoadPreset(path string) (Options, error) {
	opts := DefaultOptions

	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read seed preset: %w", err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("parse seed preset: %w", err)
	}
	return opts, nil
}

// Seed populates the database with generated users, groups, posts, comments
// and follow edges.
func Seed(db *gorm.DB, opts Options) error {
	if opts.Wipe {
		if err := clearData(db); err != nil {
			return fmt.Errorf("wipe existing data: %w", err)
		}
	}

	factory := NewFactory(db, opts)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		group, err := factory.CreateGroup()
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		groups = append(groups, group)
	}

	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[factory.rand.Intn(len(users))]

		// Roughly a third of posts stay ungrouped.
		var group *models.Group
		if len(groups) > 0 && factory.rand.Intn(3) > 0 {
			group = groups[factory.rand.Intn(len(groups))]
		}

		post, err := factory.CreatePost(author, group)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		for i := 0; i < opts.CommentsPerPost; i++ {
			commenter := users[factory.rand.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
	}

	for _, follower := range users {
		for i := 0; i < opts.FollowsPerUser; i++ {
			author := users[factory.rand.Intn(len(users))]
			if err := factory.CreateFollow(follower, author); err != nil {
				return fmt.Errorf("create follow: %w", err)
			}
		}
	}

	slog.Info("seed complete",
		slog.Int("users", len(users)),
		slog.Int("groups", len(groups)),
		slog.Int("posts", len(posts)))
	return nil
}

func clearData(db *gorm.DB) error {
	// Children before parents.
	for _, model := range []any{
		&models.Comment{}, &models.Follow{}, &models.Post{},
		&models.Image{}, &models.Group{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
