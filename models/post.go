package models

import "time"

// Post is an authored text entry, optionally tied to a group and an image.
// Creation time is the sole sort key of every timeline.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Group     *Group    `json:"group,omitempty"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

const labelRunes = 15

// Label returns the short display label: the first 15 characters of the text.
func (p Post) Label() string {
	r := []rune(p.Text)
	if len(r) > labelRunes {
		r = r[:labelRunes]
	}
	return string(r)
}
