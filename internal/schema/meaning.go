package schema

import "strings"

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "ts": "timestamp", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "pwd": "password", "passwd": "password",
	"img": "image", "pic": "image", "avatar": "image", "url": "url",
	"msg": "message", "txt": "text", "doc": "document", "usr": "user",
	"org": "organization", "grp": "group", "cat": "category",
	"rx": "prescribed", "reps": "repetitions", "wod": "workout",
	"seq": "sequence", "idx": "index", "pos": "position", "ord": "order",
	"cents": "money", "fee": "money", "price": "money",
	"is": "yesno", "has": "yesno", "flg": "flag",
}

// commentHints are checked before the column name. First match wins.
var commentHints = []struct{ keyword, meaning string }{
	{"email", "email"},
	{"phone", "phone"},
	{"slug", "slug"},
	{"password", "password"},
	{"epoch", "timestamp"},
	{"date", "date"},
	{"description", "description"},
	{"price", "money"},
	{"flag", "yesno"},
}

// AnalyzeMeaning derives a space-separated meaning from a snake_case column
// name, expanding abbreviations. A comment, when present, takes priority.
func AnalyzeMeaning(colName, comment string) string {
	c := strings.ToLower(comment)
	for _, h := range commentHints {
		if strings.Contains(c, h.keyword) {
			return h.meaning
		}
	}

	parts := strings.Split(strings.ToLower(colName), "_")
	for i, part := range parts {
		if full, ok := abbreviations[part]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}
