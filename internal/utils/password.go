package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost bcrypt 计算成本，测试中可以调低
var PasswordCost = bcrypt.DefaultCost

// HashPassword 哈希密码
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// CheckPassword 验证密码
func CheckPassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
