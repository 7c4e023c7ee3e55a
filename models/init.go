package models

import (
	"skinviz/db"
)

func Init() error {
	return db.Instance.AutoMigrate(&Analysis{}, &Overlay{})
}
