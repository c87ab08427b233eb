// Package user はユーザー資格情報の永続化と検索を提供します。
package user

// User は登録済みユーザーのレコードです。
// パスワードは平文を保持せず、bcryptダイジェストのみを保存します。
type User struct {
	ID           string `bson:"_id,omitempty"`
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password"`
}
