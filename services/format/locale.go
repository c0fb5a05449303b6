package formatsvc

import (
	"fmt"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/fr"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
)

// localeFormatter builds the capture note on recorded sessions using
// locale-aware date/time formatting.
type localeFormatter struct {
	trans locales.Translator
}

var _ activity.InfoFormatter = (*localeFormatter)(nil)

func NewLocaleFormatter(conf *core.Config) activity.InfoFormatter {
	var trans locales.Translator
	switch conf.Locale {
	case "fr":
		trans = fr.New()
	default:
		trans = en.New()
	}
	return &localeFormatter{trans: trans}
}

func (f localeFormatter) FormatRecordInfo(recordedAt time.Time, recordedBy activity.Person) string {
	return fmt.Sprintf(
		"recorded by %s on %s at %s",
		f.formatName(recordedBy),
		f.trans.FmtDateLong(recordedAt),
		f.trans.FmtTimeShort(recordedAt),
	)
}

func (f localeFormatter) formatName(p activity.Person) string {
	switch p.Role {
	case activity.RoleStaff:
		return fmt.Sprintf("%s, %s", p.LastName, p.FirstName)
	case activity.RoleParent:
		return fmt.Sprintf("%s %s (parent)", p.FirstName, p.LastName)
	case activity.RoleStudent:
		return fmt.Sprintf("%s %s (student)", p.FirstName, p.LastName)
	}
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}
