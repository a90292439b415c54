package repository

import (
	checkoutRepo "go-twocheckout/internal/repository/checkout"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	Checkout checkoutRepo.IRepository
}
