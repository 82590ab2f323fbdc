package model

// Todo is a single todo item. The same struct is the `todo` table row and the
// JSON shape returned by the API.
type Todo struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Task      string `gorm:"type:varchar(200);not null" json:"task"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
}

// TableName keeps the table name singular
func (Todo) TableName() string {
	return "todo"
}
