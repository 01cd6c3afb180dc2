package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword хеширует пароль через bcrypt. Хешируются пароли ВСЕХ ролей,
// включая админов — никаких исключений для привилегированных учёток.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
