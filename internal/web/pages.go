// Package web はサイトの各ページを描画します。
package web

import (
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/AHidalgo342/COMP2537-Assignment-1/internal/auth"
)

// memberImages は /members で無作為に1枚表示する固定アセットの一覧です。
var memberImages = []string{
	"alien_anguish.jpg",
	"alien_bug_eye.jpg",
	"alien_crying.jpg",
	"alien_huh.jpg",
	"alien_sad.jpg",
	"alien_sandwich.jpg",
	"alien_sitting.jpg",
	"alien_stupid.jpg",
	"alien_think_hard_crying.png",
}

var pageTemplates = map[string]string{
	"landing": `
        <form action='/signUp' method='post'>
            <button>Sign Up</button>
        </form>
        <form action='/login' method='post'>
            <button>Log In</button>
        </form>
    {{if .LoggedOut}}<br> You have logged out{{end}}`,

	"signup": `
    create user
    <form action='/submitUser' method='post'>
    <input name='username' type='text' placeholder='username'>
    <input name='email' type='text' placeholder='email'>
    <input name='password' type='password' placeholder='password'>
    <button>Submit</button>
    </form>
    {{if .InvalidCred}}<br> invalid Credentials.{{end}}`,

	"login": `
    log in
    <form action='/loggingin' method='post'>
    <input name='email' type='text' placeholder='email'>
    <input name='password' type='password' placeholder='password'>
    <button>Submit</button>
    </form>
    {{if .InvalidEmail}}<br>Invalid email{{end}}
    {{if .NoAccount}}<br>No account found{{end}}
    {{if .InvalidPassword}}<br>Wrong password{{end}}`,

	"members": `
    Hello, {{.Username}}!
    <img src='{{.Image}}' width='500' height='500'>
    <br>
    <form action='/logout' method='post'>
        <button>Log Out</button>
    </form>`,
}

type landingData struct {
	LoggedOut bool
}

type signUpData struct {
	InvalidCred bool
}

type loginData struct {
	InvalidEmail    bool
	NoAccount       bool
	InvalidPassword bool
}

type membersData struct {
	Username string
	Image    string
}

// Pages はページテンプレートと静的アセットの配信をまとめた構造体です。
type Pages struct {
	tmpl      *template.Template
	publicDir string
	logger    *log.Logger
}

// NewPages はテンプレートを解析して Pages を作成します。
func NewPages(publicDir string, logger *log.Logger) (*Pages, error) {
	tmpl := template.New("pages")
	for name, text := range pageTemplates {
		if _, err := tmpl.New(name).Parse(text); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
	}
	return &Pages{
		tmpl:      tmpl,
		publicDir: publicDir,
		logger:    logger,
	}, nil
}

// Landing は GET / のハンドラーです。
func (p *Pages) Landing(c *gin.Context) {
	p.render(c, "landing", landingData{LoggedOut: c.Query("loggedOut") != ""})
}

// SignUpForm は POST /signUp のハンドラーです。エラーフラグはフォーム本文から読みます。
func (p *Pages) SignUpForm(c *gin.Context) {
	p.render(c, "signup", signUpData{InvalidCred: c.PostForm("invalidCred") != ""})
}

// LoginForm は POST /login のハンドラーです。エラーフラグはクエリから読みます。
func (p *Pages) LoginForm(c *gin.Context) {
	p.render(c, "login", loginData{
		InvalidEmail:    c.Query("invalidEmail") != "",
		NoAccount:       c.Query("noAccount") != "",
		InvalidPassword: c.Query("invalidPassword") != "",
	})
}

// Members は GET /members のハンドラーです。RequireSession の内側に配置します。
func (p *Pages) Members(c *gin.Context) {
	p.render(c, "members", membersData{
		Username: c.GetString(auth.ContextUserKey),
		Image:    memberImages[rand.Intn(len(memberImages))],
	})
}

// NotFound は未登録ルートのハンドラーです。
// public 配下に実ファイルがあればそれを配信し、なければ404本文を返します。
func (p *Pages) NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		// 先頭に / を付けてから Clean することでディレクトリトラバーサルを防ぐ
		name := path.Clean("/" + c.Request.URL.Path)
		full := filepath.Join(p.publicDir, filepath.FromSlash(name))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
	}
	c.String(http.StatusNotFound, "Page not found - 404")
}

func (p *Pages) render(c *gin.Context, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(c.Writer, name, data); err != nil {
		p.logger.Printf("render %s failed: %v", name, err)
		c.String(http.StatusInternalServerError, "Internal server error")
	}
}
