package gitrepo

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	schemeSeparatorConstant             = "://"
	userDelimiterConstant               = "@"
	scpPathDelimiterConstant            = ":"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	emptyRemoteURLMessageConstant       = "remote url must be provided"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	missingHostMessageConstant          = "remote url has no host"
	missingRepositoryMessageConstant    = "remote url has no repository path"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
)

// RemoteProtocol enumerates the transports accepted for an upstream remote.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = "ssh"
	RemoteProtocolHTTPS RemoteProtocol = "https"
	RemoteProtocolHTTP  RemoteProtocol = "http"
	RemoteProtocolGit   RemoteProtocol = "git"
	RemoteProtocolFile  RemoteProtocol = "file"
)

var schemeProtocols = map[string]RemoteProtocol{
	string(RemoteProtocolSSH):   RemoteProtocolSSH,
	string(RemoteProtocolHTTPS): RemoteProtocolHTTPS,
	string(RemoteProtocolHTTP):  RemoteProtocolHTTP,
	string(RemoteProtocolGit):   RemoteProtocolGit,
	string(RemoteProtocolFile):  RemoteProtocolFile,
}

// RemoteURL is the structured form of a remote location. Owner holds every path segment before the
// repository name, so nested group paths are preserved.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// Slug returns "owner/repository", or just the repository when there is no owner.
func (remote RemoteURL) Slug() string {
	if len(remote.Owner) == 0 {
		return remote.Repository
	}
	return remote.Owner + pathSeparatorConstant + remote.Repository
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates a URL scheme git remotes do not use.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL accepts scheme URLs (ssh, https, http, git, file) and scp-style "user@host:path" remotes.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: emptyRemoteURLMessageConstant}
	}

	if scheme, remainder, hasScheme := strings.Cut(trimmedRemote, schemeSeparatorConstant); hasScheme {
		protocol, supported := schemeProtocols[strings.ToLower(scheme)]
		if !supported {
			return RemoteURL{}, UnsupportedProtocolError{Protocol: RemoteProtocol(scheme)}
		}
		if protocol == RemoteProtocolFile {
			return buildRemoteURL(trimmedRemote, protocol, "", remainder)
		}
		authority, path, _ := strings.Cut(remainder, pathSeparatorConstant)
		return buildRemoteURL(trimmedRemote, protocol, stripUser(authority), path)
	}

	authority, path, hasDelimiter := strings.Cut(trimmedRemote, scpPathDelimiterConstant)
	if !hasDelimiter || strings.Contains(authority, pathSeparatorConstant) {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	return buildRemoteURL(trimmedRemote, RemoteProtocolSSH, stripUser(authority), path)
}

func buildRemoteURL(input string, protocol RemoteProtocol, host string, path string) (RemoteURL, error) {
	if protocol != RemoteProtocolFile && len(host) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: missingHostMessageConstant}
	}

	segments := lo.Compact(strings.Split(path, pathSeparatorConstant))
	if len(segments) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: missingRepositoryMessageConstant}
	}

	repository := strings.TrimSuffix(segments[len(segments)-1], gitSuffixConstant)
	if len(repository) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: input, Message: missingRepositoryMessageConstant}
	}

	return RemoteURL{
		Protocol:   protocol,
		Host:       host,
		Owner:      strings.Join(segments[:len(segments)-1], pathSeparatorConstant),
		Repository: repository,
	}, nil
}

func stripUser(authority string) string {
	if userSplitIndex := strings.LastIndex(authority, userDelimiterConstant); userSplitIndex >= 0 {
		return authority[userSplitIndex+1:]
	}
	return authority
}
