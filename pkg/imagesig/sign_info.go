// Copyright 2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagesig

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/u-root/u-root/pkg/dt"

	"github.com/linuxboot/imagesig/pkg/fdt"
	"github.com/linuxboot/imagesig/pkg/hash"
	"github.com/linuxboot/imagesig/pkg/log"
)

const (
	// DefaultPadding is used when a signature node has no "padding".
	DefaultPadding = "pkcs-1.5"

	// SignatureNodePath is where the verification keys live in the
	// control tree.
	SignatureNodePath = "/signature"

	// KeyNodePrefix prefixes the key name hint in key node names.
	KeyNodePrefix = "key-"
)

// SignInfo is a resolved signature algorithm together with the keys to
// verify against.
type SignInfo struct {
	// Name is the compound algorithm name, e.g. "sha256,rsa2048".
	Name string

	// KeyName is the key name hint. The key node "key-<KeyName>" is
	// tried first.
	KeyName string

	Checksum *ChecksumAlgorithm
	Crypto   CryptoAlgorithm
	Padding  PaddingAlgorithm

	// Keys is the tree holding the /signature node.
	Keys *fdt.Tree

	// RequiredKeyNode, if set, is the only key node tried.
	RequiredKeyNode *dt.Node
}

// NewSignInfo resolves the compound algorithm name "algoName" and the
// padding name in the registry. An empty padding name means
// DefaultPadding.
func (r *Registry) NewSignInfo(algoName, paddingName string, keys *fdt.Tree, keyName string) (*SignInfo, error) {
	if paddingName == "" {
		paddingName = DefaultPadding
	}
	info := &SignInfo{
		Name:     algoName,
		KeyName:  keyName,
		Checksum: GetChecksumAlgo(algoName),
		Crypto:   r.GetCryptoAlgo(algoName),
		Padding:  r.GetPaddingAlgo(paddingName),
		Keys:     keys,
	}

	var result *multierror.Error
	if info.Checksum == nil {
		result = multierror.Append(result, fmt.Errorf("'%s': %w", algoName, ErrUnknownChecksum))
	}
	if info.Crypto == nil {
		result = multierror.Append(result, fmt.Errorf("'%s': %w", algoName, ErrUnknownCrypto))
	}
	if info.Padding == nil {
		result = multierror.Append(result, fmt.Errorf("'%s': %w", paddingName, ErrUnknownPadding))
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("unsupported signature algorithm '%s': %w", algoName, err)
	}
	return info, nil
}

// Verify checks "sig" over "regions".
func (info *SignInfo) Verify(regions []hash.Region, sig []byte) error {
	return info.Crypto.Verify(info, regions, sig)
}

// ForEachKey calls "verify" with candidate key nodes until one succeeds.
//
// If RequiredKeyNode is set, it is the only candidate. Otherwise the node
// "key-<KeyName>" is tried first and then every other child of
// /signature in order. A candidate whose "algo" differs from Name is
// skipped.
func (info *SignInfo) ForEachKey(verify func(key *dt.Node) error) error {
	if info.RequiredKeyNode != nil {
		if err := info.tryKey(info.RequiredKeyNode, verify); err != nil {
			return multierror.Append(ErrVerify, err)
		}
		return nil
	}

	if info.Keys == nil {
		return fmt.Errorf("no key tree: %w", ErrNoKey)
	}
	sigNode, ok := info.Keys.Lookup(SignatureNodePath)
	if !ok || len(sigNode.Children) == 0 {
		return fmt.Errorf("no keys in '%s': %w", SignatureNodePath, ErrNoKey)
	}

	var errs []error
	hinted, hasHint := fdt.Child(sigNode, KeyNodePrefix+info.KeyName)
	if hasHint {
		err := info.tryKey(hinted, verify)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	for _, key := range sigNode.Children {
		if hasHint && key == hinted {
			continue
		}
		err := info.tryKey(key, verify)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return multierror.Append(ErrVerify, errs...)
}

func (info *SignInfo) tryKey(key *dt.Node, verify func(key *dt.Node) error) error {
	algo, err := fdt.PropString(key, "algo")
	if err != nil {
		return &ErrKey{Node: key.Name, Err: err}
	}
	if algo != info.Name {
		return &ErrKey{Node: key.Name, Err: fmt.Errorf("wrong algo: have '%s', expected '%s'", algo, info.Name)}
	}
	if err := verify(key); err != nil {
		log.Debugf("%s: key '%s' does not verify: %v", info.Name, key.Name, err)
		return &ErrKey{Node: key.Name, Err: err}
	}
	log.Debugf("%s: verified with key '%s'", info.Name, key.Name)
	return nil
}

// AddKeyNode creates (or replaces) the key node "key-<keyName>" under
// /signature with the common properties. The crypto back-end adds the
// key material.
func AddKeyNode(keys *fdt.Tree, algoName, keyName, required string) (*dt.Node, error) {
	sigNode, ok := keys.Lookup(SignatureNodePath)
	if !ok {
		var err error
		if sigNode, err = keys.AddSubnode(keys.Root(), SignatureNodePath[1:]); err != nil {
			return nil, err
		}
	}
	name := KeyNodePrefix + keyName
	if _, ok := fdt.Child(sigNode, name); ok {
		if err := keys.DeleteNode(SignatureNodePath + "/" + name); err != nil {
			return nil, err
		}
	}
	key, err := keys.AddSubnode(sigNode, name)
	if err != nil {
		return nil, err
	}
	fdt.SetPropString(key, "algo", algoName)
	fdt.SetPropString(key, "key-name-hint", keyName)
	if required != "" {
		fdt.SetPropString(key, "required", required)
	}
	return key, nil
}
