// Package validation 预约人信息校验（社会保险号、电话号码）
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ── 奥地利社会保险号（SVNR） ──
//
// 结构 LLLPTTMMJJ：LLL 流水号（首位非 0），P 校验位，TTMMJJ 出生日期。

var svnrWeights = [9]int{3, 7, 9, 5, 8, 4, 2, 1, 6}

// ValidSVNR 校验社会保险号，忽略空白字符
func ValidSVNR(s string) bool {
	clean := strings.Join(strings.Fields(s), "")
	if len(clean) != 10 {
		return false
	}
	var d [10]int
	for i, r := range clean {
		if r < '0' || r > '9' {
			return false
		}
		d[i] = int(r - '0')
	}
	if d[0] == 0 {
		return false
	}

	day := d[4]*10 + d[5]
	month := d[6]*10 + d[7]
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return false
	}

	return SVNRCheckDigit(clean[:3], clean[4:]) == d[3]
}

// SVNRCheckDigit 计算校验位（流水号 3 位 + 出生日期 6 位）
// 余数为 10 时校验位记为 4
func SVNRCheckDigit(serial, birthDate string) int {
	digits := serial + birthDate
	sum := 0
	for i := 0; i < len(svnrWeights) && i < len(digits); i++ {
		sum += int(digits[i]-'0') * svnrWeights[i]
	}
	r := sum % 11
	if r == 10 {
		return 4
	}
	return r
}

// ── 电话号码 ──

var (
	phoneStrip    = regexp.MustCompile(`[^\d+]`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\+43[1-9]\d{6,12}$`), // 奥地利
		regexp.MustCompile(`^\+49[1-9]\d{6,12}$`), // 德国
		regexp.MustCompile(`^0[1-9]\d{6,12}$`),    // 国内号码
		regexp.MustCompile(`^\+[1-9]\d{7,14}$`),   // 其他国际号码
		regexp.MustCompile(`^[1-9]\d{6,11}$`),     // 本地号码
	}
)

// NormalizePhone 去除空格、括号、连字符等格式字符
func NormalizePhone(s string) string {
	return phoneStrip.ReplaceAllString(s, "")
}

// ValidPhone 校验电话号码
func ValidPhone(s string) bool {
	clean := NormalizePhone(s)
	if len(clean) < 8 || len(clean) > 15 {
		return false
	}
	for _, p := range phonePatterns {
		if p.MatchString(clean) {
			return true
		}
	}
	return false
}

// ── gin 绑定标签 ──

// RegisterGinValidators 在 gin 默认校验器上注册 svnr / phone 标签
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎不是 validator/v10")
	}
	return Register(v)
}

// Register 在指定校验器上注册自定义标签
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("svnr", func(fl validator.FieldLevel) bool {
		return ValidSVNR(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("注册 svnr 校验失败: %w", err)
	}
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("注册 phone 校验失败: %w", err)
	}
	return nil
}
