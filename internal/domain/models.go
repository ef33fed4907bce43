package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the user's role on the platform.
type Role string

const (
	RoleUser       Role = "USER"
	RoleInfluencer Role = "INFLUENCER"
	RoleAdmin      Role = "ADMIN"
)

// PostType is the category a post is filed under.
type PostType string

const (
	PostTypeGeneral   PostType = "GENERAL"
	PostTypeQuestion  PostType = "QUESTION"
	PostTypeHighlight PostType = "HIGHLIGHT"
	PostTypeNews      PostType = "NEWS"
)

// MediaType is the kind of file attached to a post.
type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
)

// MediaStatus tracks an upload. UPLOADING is initial, the others are terminal.
type MediaStatus string

const (
	MediaStatusUploading MediaStatus = "UPLOADING"
	MediaStatusCompleted MediaStatus = "COMPLETED"
	MediaStatusFailed    MediaStatus = "FAILED"
)

// User представляет пользователя. Пароль наружу никогда не отдается.
type User struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	Nickname     string         `json:"nickname" gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         Role           `json:"role" gorm:"type:varchar(20);not null;default:'USER'"`
	Bio          string         `json:"bio" gorm:"type:varchar(500)"`
	AvatarURL    string         `json:"avatarUrl" gorm:"type:varchar(512)"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// Post представляет пост в системе. AuthorID не меняется после создания.
type Post struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Type      PostType       `json:"type" gorm:"type:varchar(20);not null;default:'GENERAL'"`
	AuthorID  string         `json:"authorId" gorm:"type:uuid;not null;index"`
	ViewCount int64          `json:"viewCount" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author   *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Comments []*Comment     `json:"comments,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Media    []*Media       `json:"media,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Versions []*PostVersion `json:"versions,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// PostVersion is an append-only snapshot of a post's content. Version 1 holds the
// content at creation, every later version the content replaced by that edit.
type PostVersion struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	PostID     string    `json:"postId" gorm:"type:uuid;not null;uniqueIndex:idx_post_versions_post_version"`
	AuthorID   string    `json:"authorId" gorm:"type:uuid;not null"`
	Version    int       `json:"version" gorm:"not null;uniqueIndex:idx_post_versions_post_version"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	EditReason string    `json:"editReason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Comment представляет комментарий к посту. ParentID указывает на комментарий
// того же поста.
type Comment struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    string         `json:"postId" gorm:"type:uuid;not null;index"`
	ParentID  *string        `json:"parentCommentId,omitempty" gorm:"type:uuid;index"`
	AuthorID  string         `json:"authorId" gorm:"type:uuid;not null"`
	Content   string         `json:"content" gorm:"type:varchar(2000);not null"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Author  *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Replies []*Comment `json:"replies,omitempty" gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}

// Media is a file attached to a post. Mutation rights follow the post's author.
type Media struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	PostID    string         `json:"postId" gorm:"type:uuid;not null;index"`
	URL       string         `json:"url" gorm:"type:varchar(1024);not null;default:''"`
	Type      MediaType      `json:"type" gorm:"type:varchar(10);not null"`
	Status    MediaStatus    `json:"status" gorm:"type:varchar(20);not null;default:'UPLOADING'"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Post *Post `json:"-" gorm:"foreignKey:PostID"`
}

// Follow is a directed follower -> following edge.
type Follow struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	FollowerID  string    `json:"followerId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair"`
	FollowingID string    `json:"followingId" gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair;index"`
	CreatedAt   time.Time `json:"createdAt"`

	Follower  *User `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Following *User `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
}

// Team is a sports team users can pick as favourites.
type Team struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Sport     string    `json:"sport" gorm:"type:varchar(50);not null"`
	League    string    `json:"league" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserTeam ranks a team in a user's "my teams" list. Priorities per user are 1..N.
type UserTeam struct {
	UserID    string    `json:"userId" gorm:"type:uuid;primaryKey;uniqueIndex:idx_user_teams_priority"`
	TeamID    string    `json:"teamId" gorm:"type:uuid;primaryKey"`
	Priority  int       `json:"priority" gorm:"not null;uniqueIndex:idx_user_teams_priority"`
	CreatedAt time.Time `json:"createdAt"`

	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// Models lists every entity the store migrates.
func Models() []any {
	return []any{
		&User{}, &Team{}, &Post{}, &PostVersion{}, &Comment{}, &Media{}, &Follow{}, &UserTeam{},
	}
}

func (u *User) BeforeCreate(*gorm.DB) error        { u.ID = ensureID(u.ID); return nil }
func (p *Post) BeforeCreate(*gorm.DB) error        { p.ID = ensureID(p.ID); return nil }
func (v *PostVersion) BeforeCreate(*gorm.DB) error { v.ID = ensureID(v.ID); return nil }
func (c *Comment) BeforeCreate(*gorm.DB) error     { c.ID = ensureID(c.ID); return nil }
func (m *Media) BeforeCreate(*gorm.DB) error       { m.ID = ensureID(m.ID); return nil }
func (f *Follow) BeforeCreate(*gorm.DB) error      { f.ID = ensureID(f.ID); return nil }
func (t *Team) BeforeCreate(*gorm.DB) error        { t.ID = ensureID(t.ID); return nil }

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
