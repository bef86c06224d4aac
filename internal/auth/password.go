package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassphrase 使用 bcrypt 生成口令哈希。
func HashPassphrase(passphrase string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash passphrase: %w", err)
	}
	return string(bytes), nil
}

// CheckPassphraseHash 校验口令是否匹配哈希。
func CheckPassphraseHash(passphrase, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)) == nil
}
