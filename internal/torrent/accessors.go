package torrent

import (
	"time"

	"github.com/WendelHime/torrentmeta/internal/bencode"
	"github.com/WendelHime/torrentmeta/internal/shared/models"
)

// Name returns info.name. When the name is missing, DefaultName is stored
// first and then returned, so the default also ends up in a saved file.
func (t *Torrent) Name() (string, error) {
	info, err := t.info(true)
	if err != nil {
		return "", err
	}
	v, ok := info.Get(keyName)
	if !ok {
		info.Set(keyName, bencode.String(DefaultName))
		return DefaultName, nil
	}
	name, ok := v.(bencode.ByteString)
	if !ok {
		return "", &SchemaError{Key: "info.name", Want: "a byte string"}
	}
	return string(name), nil
}

// Filename is the suggested file name: Name plus ".torrent".
func (t *Torrent) Filename() (string, error) {
	name, err := t.Name()
	if err != nil {
		return "", err
	}
	return name + ".torrent", nil
}

func (t *Torrent) SetName(name string) error {
	info, err := t.info(true)
	if err != nil {
		return err
	}
	info.Set(keyName, bencode.String(name))
	return nil
}

// IsPrivate reports whether "private" is the integer 1.
func (t *Torrent) IsPrivate() bool {
	n, ok := bencode.GetInt(t.root, keyPrivate)
	return ok && n == 1
}

// SetPrivate stores private=1, or removes the key entirely.
func (t *Torrent) SetPrivate(private bool) {
	if private {
		t.root.Set(keyPrivate, bencode.Integer(1))
		return
	}
	t.root.Delete(keyPrivate)
}

// Announce returns the announce tiers. "announce-list" wins when present;
// otherwise a single "announce" URL is returned as [[url]]. ErrNoAnnounce is
// returned when neither key exists.
func (t *Torrent) Announce() ([][]string, error) {
	if v, ok := t.root.Get(keyAnnounceList); ok {
		return announceTiers(v)
	}
	if v, ok := t.root.Get(keyAnnounce); ok {
		url, ok := v.(bencode.ByteString)
		if !ok {
			return nil, &SchemaError{Key: keyAnnounce, Want: "a byte string"}
		}
		return [][]string{{string(url)}}, nil
	}
	return nil, ErrNoAnnounce
}

func announceTiers(v bencode.Value) ([][]string, error) {
	schemaErr := &SchemaError{Key: keyAnnounceList, Want: "a list of lists of byte strings"}
	list, ok := v.(bencode.List)
	if !ok {
		return nil, schemaErr
	}
	tiers := make([][]string, 0, len(list))
	for _, item := range list {
		tier, ok := item.(bencode.List)
		if !ok {
			return nil, schemaErr
		}
		urls := make([]string, 0, len(tier))
		for _, u := range tier {
			url, ok := u.(bencode.ByteString)
			if !ok {
				return nil, schemaErr
			}
			urls = append(urls, string(url))
		}
		tiers = append(tiers, urls)
	}
	return tiers, nil
}

// SetAnnounce sets the single tracker URL. An existing "announce-list" is
// left as it is and keeps taking precedence in Announce.
func (t *Torrent) SetAnnounce(url string) {
	t.root.Set(keyAnnounce, bencode.String(url))
}

// SetAnnounceList sets the tracker tiers. "announce" is left untouched.
func (t *Torrent) SetAnnounceList(tiers [][]string) {
	list := make(bencode.List, 0, len(tiers))
	for _, tier := range tiers {
		urls := make(bencode.List, 0, len(tier))
		for _, url := range tier {
			urls = append(urls, bencode.String(url))
		}
		list = append(list, urls)
	}
	t.root.Set(keyAnnounceList, list)
}

// ClearAnnounce removes both "announce" and "announce-list".
func (t *Torrent) ClearAnnounce() {
	t.root.Delete(keyAnnounce)
	t.root.Delete(keyAnnounceList)
}

func (t *Torrent) nodes() (bencode.List, error) {
	v, ok := t.root.Get(keyNodes)
	if !ok {
		return nil, nil
	}
	list, ok := v.(bencode.List)
	if !ok {
		return nil, &SchemaError{Key: keyNodes, Want: "a list"}
	}
	return list, nil
}

func asNode(v bencode.Value) (models.Node, bool) {
	pair, ok := v.(bencode.List)
	if !ok || len(pair) != 2 {
		return models.Node{}, false
	}
	host, ok := pair[0].(bencode.ByteString)
	if !ok {
		return models.Node{}, false
	}
	port, ok := pair[1].(bencode.Integer)
	if !ok {
		return models.Node{}, false
	}
	return models.Node{Host: string(host), Port: int64(port)}, true
}

// Nodes returns the DHT bootstrap nodes, or nil when there are none.
func (t *Torrent) Nodes() ([]models.Node, error) {
	list, err := t.nodes()
	if err != nil {
		return nil, err
	}
	var nodes []models.Node
	for _, item := range list {
		node, ok := asNode(item)
		if !ok {
			return nil, &SchemaError{Key: keyNodes, Want: "a list of [host, port] pairs"}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (t *Torrent) AddNode(host string, port int64) error {
	list, err := t.nodes()
	if err != nil {
		return err
	}
	list = append(list, bencode.List{bencode.String(host), bencode.Integer(port)})
	t.root.Set(keyNodes, list)
	return nil
}

// RemoveNode removes every node for host whatever its port. Removing from a
// torrent without nodes, or a host that is not listed, does nothing.
func (t *Torrent) RemoveNode(host string) error {
	return t.removeNodes(func(n models.Node) bool {
		return n.Host == host
	})
}

// RemoveNodePort removes the nodes matching both host and port.
func (t *Torrent) RemoveNodePort(host string, port int64) error {
	return t.removeNodes(func(n models.Node) bool {
		return n.Host == host && n.Port == port
	})
}

func (t *Torrent) removeNodes(match func(models.Node) bool) error {
	list, err := t.nodes()
	if err != nil || list == nil {
		return err
	}
	kept := make(bencode.List, 0, len(list))
	for _, item := range list {
		if node, ok := asNode(item); ok && match(node) {
			continue
		}
		kept = append(kept, item)
	}
	t.root.Set(keyNodes, kept)
	return nil
}

// CreationDate returns "creation date" when it is set.
func (t *Torrent) CreationDate() (time.Time, bool) {
	secs, ok := bencode.GetInt(t.root, keyCreationDate)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}
