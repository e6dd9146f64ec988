package models

// Character 角色模型
type Character struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Name      string `gorm:"size:250;not null" json:"name"`
	Height    string `gorm:"size:250" json:"height"`
	Weight    string `gorm:"size:250" json:"weight"`
	BirthYear string `gorm:"size:250" json:"birth_year"`
	SkinColor string `gorm:"size:250" json:"skin_color"`
	EyeColor  string `gorm:"size:250" json:"eye_color"`
	HairColor string `gorm:"size:250" json:"hair_color"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// Planet 星球模型
type Planet struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	Name           string `gorm:"size:250;not null" json:"name"`
	RotationPeriod string `gorm:"size:250" json:"rotation_period"`
	OrbitalPeriod  string `gorm:"size:250" json:"orbital_period"`
	Gravity        string `gorm:"size:250" json:"gravity"`
	Terrain        string `gorm:"size:250" json:"terrain"`
}

// TableName 指定表名
func (Planet) TableName() string {
	return "planets"
}
