package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword はパスワードを bcrypt でハッシュ化します。
// 出力文字列にはアルゴリズム・コスト・ソルトが自己記述的に含まれるため、
// 検証時に追加のパラメータは不要です。平文は保存もログ出力もしません。
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword はパスワードがハッシュと一致するかを検証します。
// 不一致の場合は単に false を返し、エラーにはしません。
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
