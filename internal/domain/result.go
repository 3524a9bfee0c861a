package domain

import "fmt"

// Result is a native library result code (sp_error).
type Result int

// Result codes returned by the native library.
const (
	ResultOk                      Result = 0
	ResultBadAPIVersion           Result = 1
	ResultAPIInitializationFailed Result = 2
	ResultTrackNotPlayable        Result = 3
	ResultBadApplicationKey       Result = 5
	ResultBadUsernameOrPassword   Result = 6
	ResultUserBanned              Result = 7
	ResultUnableToContactServer   Result = 8
	ResultClientTooOld            Result = 9
	ResultOtherPermanent          Result = 10
	ResultBadUserAgent            Result = 11
	ResultMissingCallback         Result = 12
	ResultInvalidIndata           Result = 13
	ResultIndexOutOfRange         Result = 14
	ResultUserNeedsPremium        Result = 15
	ResultOtherTransient          Result = 16
	ResultIsLoading               Result = 17
	ResultNoStreamAvailable       Result = 18
	ResultPermissionDenied        Result = 19
	ResultInboxIsFull             Result = 20
	ResultNoCache                 Result = 21
	ResultNoSuchUser              Result = 22
	ResultNoCredentials           Result = 23
	ResultNetworkDisabled         Result = 24
	ResultInvalidDeviceID         Result = 25
	ResultCantOpenTraceFile       Result = 26
	ResultApplicationBanned       Result = 27
	ResultOfflineTooManyTracks    Result = 31
	ResultOfflineDiskCache        Result = 32
	ResultOfflineExpired          Result = 33
	ResultOfflineNotAllowed       Result = 34
	ResultOfflineLicenseLost      Result = 35
	ResultOfflineLicenseError     Result = 36
	ResultLastFMAuthError         Result = 39
	ResultInvalidArgument         Result = 40
	ResultSystemFailure           Result = 41
)

var resultNames = map[Result]string{
	ResultOk:                      "ok",
	ResultBadAPIVersion:           "bad api version",
	ResultAPIInitializationFailed: "api initialization failed",
	ResultTrackNotPlayable:        "track not playable",
	ResultBadApplicationKey:       "bad application key",
	ResultBadUsernameOrPassword:   "bad username or password",
	ResultUserBanned:              "user banned",
	ResultUnableToContactServer:   "unable to contact server",
	ResultClientTooOld:            "client too old",
	ResultOtherPermanent:          "other permanent",
	ResultBadUserAgent:            "bad user agent",
	ResultMissingCallback:         "missing callback",
	ResultInvalidIndata:           "invalid input data",
	ResultIndexOutOfRange:         "index out of range",
	ResultUserNeedsPremium:        "user needs premium",
	ResultOtherTransient:          "other transient",
	ResultIsLoading:               "is loading",
	ResultNoStreamAvailable:       "no stream available",
	ResultPermissionDenied:        "permission denied",
	ResultInboxIsFull:             "inbox is full",
	ResultNoCache:                 "no cache",
	ResultNoSuchUser:              "no such user",
	ResultNoCredentials:           "no credentials",
	ResultNetworkDisabled:         "network disabled",
	ResultInvalidDeviceID:         "invalid device id",
	ResultCantOpenTraceFile:       "can't open trace file",
	ResultApplicationBanned:       "application banned",
	ResultOfflineTooManyTracks:    "offline too many tracks",
	ResultOfflineDiskCache:        "offline disk cache",
	ResultOfflineExpired:          "offline expired",
	ResultOfflineNotAllowed:       "offline not allowed",
	ResultOfflineLicenseLost:      "offline license lost",
	ResultOfflineLicenseError:     "offline license error",
	ResultLastFMAuthError:         "last.fm auth error",
	ResultInvalidArgument:         "invalid argument",
	ResultSystemFailure:           "system failure",
}

// String returns a short name for the result code.
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// IsOk reports whether r signals success.
func (r Result) IsOk() bool {
	return r == ResultOk
}

// Category maps the result code onto one of the error category sentinels.
// It returns nil for ResultOk.
func (r Result) Category() error {
	switch r {
	case ResultOk:
		return nil
	case ResultNetworkDisabled, ResultUnableToContactServer:
		return ErrConnectivity
	case ResultInvalidArgument:
		return ErrInvalidArgument
	case ResultIndexOutOfRange:
		return ErrIndexOutOfRange
	}
	if _, known := resultNames[r]; !known {
		// Codes outside the table are rejected the same way a bad argument is.
		return ErrInvalidArgument
	}
	return ErrOperationFailed
}
