package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost 当前使用的 bcrypt 成本
const Cost = bcrypt.DefaultCost

// ErrEmpty 空密码
var ErrEmpty = errors.New("password is empty")

// Hash 生成密码哈希，bcrypt 只接受 72 字节以内的输入
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify 校验密码
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash 哈希无法解析或成本低于当前 Cost
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost < Cost
}
