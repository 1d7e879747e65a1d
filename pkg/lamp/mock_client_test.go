package lamp

import "github.com/stretchr/testify/mock"

// mockClient embeds mock.Mock; its On method shadows Mock.On, so
// expectations are set through client.Mock.On.
type mockClient struct {
	mock.Mock
}

func (_m *mockClient) Info() (Info, error) {
	ret := _m.Called()
	return ret.Get(0).(Info), ret.Error(1)
}

func (_m *mockClient) On() (Response, error) {
	ret := _m.Called()
	return responseArg(ret, 0), ret.Error(1)
}

func (_m *mockClient) Off() (Response, error) {
	ret := _m.Called()
	return responseArg(ret, 0), ret.Error(1)
}

func (_m *mockClient) SetBrightness(percent int) (Response, error) {
	ret := _m.Called(percent)
	return responseArg(ret, 0), ret.Error(1)
}

func (_m *mockClient) Status() (Status, error) {
	ret := _m.Called()
	return ret.Get(0).(Status), ret.Error(1)
}

func responseArg(args mock.Arguments, i int) Response {
	if args.Get(i) == nil {
		return nil
	}
	return args.Get(i).(Response)
}
