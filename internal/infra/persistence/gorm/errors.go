package gormpersistence

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateEntryError 判断是否违反唯一约束 (MySQL 错误码 1062)
func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// pageOffset 将从 1 开始的页码换算为偏移量
func pageOffset(pageNum, pageSize int) int {
	if pageNum < 1 {
		pageNum = 1
	}
	return (pageNum - 1) * pageSize
}
