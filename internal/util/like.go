package util

import "strings"

// LikeEscapeChar 作为 ESCAPE 字符，MySQL/Postgres/SQLite 行为一致
const LikeEscapeChar = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// LikeContains 生成包含匹配模式，用户输入中的通配符会被转义。
// 大小写折叠交给 SQL 两侧的 LOWER()，与列值使用同一套规则
func LikeContains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// LikePrefix 生成前缀匹配模式
func LikePrefix(term string) string {
	return likeEscaper.Replace(term) + "%"
}

// LowerLike 返回 LOWER(column) LIKE LOWER(?) ESCAPE '!' 条件
func LowerLike(column string) string {
	return "LOWER(" + column + ") LIKE LOWER(?) ESCAPE '" + LikeEscapeChar + "'"
}
