// Package auth は登録・ログイン・セッション管理をまとめた認証機能を提供します。
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost はパスワードハッシュに使うbcryptのコストファクターです。
const DefaultBcryptCost = 10

// Hasher はbcryptによるパスワードのハッシュ化と照合を提供します。
// ソルトは呼び出しごとにbcryptが生成するため、同じ平文でもダイジェストは毎回異なります。
type Hasher struct {
	cost int
}

// NewHasher は指定したコストの Hasher を作成します。範囲外の値は既定値に丸めます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードを保存可能なダイジェストに変換します。
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify はダイジェストに埋め込まれたソルトを使って平文を照合します。
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
