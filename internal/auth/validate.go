package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/config"
)

// emailDomainTag はドメイン制約バリデータのタグ名です。
const emailDomainTag = "emaildomain"

// SignUpForm は POST /submitUser の入力です。長さの上限下限は Policy 側で検証します。
type SignUpForm struct {
	Username string `form:"username" binding:"required,alphanum"`
	Password string `form:"password" binding:"required"`
	Email    string `form:"email" binding:"required,email,emaildomain"`
}

// LoginForm は POST /loggingin の入力です。検証対象はメールアドレスの形だけです。
type LoginForm struct {
	Email    string `form:"email" binding:"required,email,emaildomain"`
	Password string `form:"password"`
}

// ValidationError は入力検証に失敗したフィールドを保持します。
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid credentials: " + strings.Join(e.Fields, ", ")
}

// Policy は資格情報の長さとメールドメインの制約を保持します。
type Policy struct {
	UsernameMaxLength int
	PasswordMinLength int
	PasswordMaxLength int
	AllowedTLDs       []string
	MaxDomainSegments int
}

// PolicyFromConfig は設定から Policy を組み立てます。
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		UsernameMaxLength: cfg.UsernameMaxLength,
		PasswordMinLength: cfg.PasswordMinLength,
		PasswordMaxLength: cfg.PasswordMaxLength,
		AllowedTLDs:       cfg.EmailAllowedTLDs,
		MaxDomainSegments: cfg.EmailMaxDomainSegments,
	}
}

// RegisterValidators は gin のバインディングエンジンにドメイン制約バリデータを登録します。
// ShouldBind でフォームを検証する前に一度呼んでおく必要があります。
func RegisterValidators(p Policy) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation(emailDomainTag, func(fl validator.FieldLevel) bool {
			return p.allowEmailDomain(fl.Field().String())
		})
	}
}

// CheckSignUp は登録入力のポリシー違反フィールド名を返します。
// 長さ制限は設定で変えられるため、バインディングタグではなくここで検証します。
func (p Policy) CheckSignUp(f *SignUpForm) []string {
	var fields []string
	if len(f.Username) > p.UsernameMaxLength {
		fields = append(fields, "username")
	}
	if len(f.Password) < p.PasswordMinLength || len(f.Password) > p.PasswordMaxLength {
		fields = append(fields, "password")
	}
	return fields
}

// allowEmailDomain はドメインのセグメント数とTLDの許可リストを確認します。
func (p Policy) allowEmailDomain(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	segments := strings.Split(email[at+1:], ".")
	if len(segments) < 2 || len(segments) > p.MaxDomainSegments {
		return false
	}
	tld := strings.ToLower(segments[len(segments)-1])
	for _, allowed := range p.AllowedTLDs {
		if tld == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// bindingFields はバインディングエラーから検証に落ちたフィールド名を抜き出します。
func bindingFields(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, strings.ToLower(fe.Field()))
		}
		return fields
	}
	return []string{"form"}
}
