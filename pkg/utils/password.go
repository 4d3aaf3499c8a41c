package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt.DefaultCost(10) 抗离线爆破
func HashPassword(pw string) string {
	return HashPasswordCost(pw, bcrypt.DefaultCost)
}

// HashPasswordCost 测试用低 cost 加速
func HashPasswordCost(pw string, cost int) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), cost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
