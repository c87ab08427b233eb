package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound はメールアドレスに一致するユーザーが存在しないことを表します。
	ErrNotFound = errors.New("user not found")
	// ErrAmbiguous は同一メールアドレスのユーザーが複数存在することを表します。
	ErrAmbiguous = errors.New("multiple users match email")
	// ErrDuplicate は一意インデックス違反を表します。
	ErrDuplicate = errors.New("user already exists")
)

// Store はユーザーコレクションへのアクセスを提供します。
type Store struct {
	coll *mongo.Collection
}

// NewStore は Store を作成します。
func NewStore(coll *mongo.Collection) *Store {
	return &Store{coll: coll}
}

// Insert はユーザーを登録し、採番したIDを返します。
// メール・ユーザー名の一意性はストレージ層では強制されないため、
// 同一メールの同時登録は直列化されずに複数レコードになり得ます。
func (s *Store) Insert(ctx context.Context, u *User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if _, err := s.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", err
	}
	return u.ID, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
// 一致が0件なら ErrNotFound、2件以上なら ErrAmbiguous を返し、
// どちらをどう扱うかは呼び出し側のポリシーに委ねます。
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	cur, err := s.coll.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	var users []User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return classify(users)
}

// classify は検索結果を Found / NotFound / Ambiguous に振り分けます。
func classify(users []User) (*User, error) {
	switch len(users) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &users[0], nil
	default:
		return nil, ErrAmbiguous
	}
}
