package storage

import (
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Write(name string, data []byte) error {
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockStorage) Read(name string) ([]byte, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) Exists(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Remove(name string) error {
	args := m.Called(name)
	return args.Error(0)
}
