package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// supportsRowLocking sqlite 不支持 SELECT ... FOR UPDATE
func supportsRowLocking(db *gorm.DB) bool {
	return dbDialectName(db) != "sqlite"
}

// lockForUpdate 在支持的方言上追加行锁子句
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if !supportsRowLocking(db) {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// likeOperator 大小写不敏感的 LIKE；postgres 的 LIKE 区分大小写
func likeOperator(db *gorm.DB) string {
	if dbDialectName(db) == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}
