package auth

import (
	"testing"

	"github.com/Lounwb/Stockin/pkg/config"
)

func setTestConfig() {
	config.GlobalConfig = &config.Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "pass123",
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	setTestConfig()

	token, err := GenerateToken("admin")
	if err != nil {
		t.Fatalf("生成token失败: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("验证token失败: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("用户名错误: %s", claims.Username)
	}
}

func TestValidateTokenTampered(t *testing.T) {
	setTestConfig()

	token, err := GenerateToken("admin")
	if err != nil {
		t.Fatalf("生成token失败: %v", err)
	}

	if _, err := ValidateToken(token + "x"); err == nil {
		t.Error("篡改后的token应验证失败")
	}
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("非法token应验证失败")
	}
}

func TestValidateCredentials(t *testing.T) {
	setTestConfig()

	if !ValidateCredentials("admin", "pass123") {
		t.Error("正确的用户名密码应通过验证")
	}
	if ValidateCredentials("admin", "wrong") {
		t.Error("错误密码不应通过验证")
	}
	if ValidateCredentials("other", "pass123") {
		t.Error("错误用户名不应通过验证")
	}

	// 未配置密码时一律拒绝
	config.GlobalConfig.AdminPassword = ""
	if ValidateCredentials("admin", "") {
		t.Error("空密码配置下不应通过验证")
	}
}
