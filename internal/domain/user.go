package domain

// AppUser is a registered customer. Email is stored lower-cased and is unique.
type AppUser struct {
	ID           string   `gorm:"primaryKey;type:uuid"`
	DisplayName  string   `gorm:"not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Address      *Address `gorm:"foreignKey:AppUserID"`
}

// Address is the single shipping address of a user.
type Address struct {
	ID        int    `gorm:"primaryKey"`
	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	Street    string `gorm:"not null"`
	City      string `gorm:"not null"`
	State     string `gorm:"not null"`
	Zipcode   string `gorm:"not null"`
	AppUserID string `gorm:"type:uuid;uniqueIndex;not null"`
}
