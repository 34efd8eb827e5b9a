package bindings

// BlobToKZGCommitment returns the 48-byte commitment to blob.
func (in *Instance) BlobToKZGCommitment(blob any) ([]byte, error) {
	b, err := blobOf(blob, "blob")
	if err != nil {
		return nil, err
	}

	s, err := in.acquire()
	if err != nil {
		return nil, err
	}
	defer in.release()

	commitment, ret := in.eng.BlobToKZGCommitment(s, b)
	if err := in.check(OpBlobToKZGCommitment, ret); err != nil {
		return nil, err
	}
	return clone(commitment[:]), nil
}

// ComputeKZGProof returns the proof for the evaluation of blob at zBytes and
// the evaluation itself.
func (in *Instance) ComputeKZGProof(blob, zBytes any) (proof, y []byte, err error) {
	b, err := blobOf(blob, "blob")
	if err != nil {
		return nil, nil, err
	}
	z, err := bytes32Of(zBytes, "zBytes")
	if err != nil {
		return nil, nil, err
	}

	s, err := in.acquire()
	if err != nil {
		return nil, nil, err
	}
	defer in.release()

	p, yOut, ret := in.eng.ComputeKZGProof(s, b, z)
	if err := in.check(OpComputeKZGProof, ret); err != nil {
		return nil, nil, err
	}
	return clone(p[:]), clone(yOut[:]), nil
}

// ComputeBlobKZGProof returns the proof that commitment commits to blob.
func (in *Instance) ComputeBlobKZGProof(blob, commitmentBytes any) ([]byte, error) {
	b, err := blobOf(blob, "blob")
	if err != nil {
		return nil, err
	}
	c, err := bytes48Of(commitmentBytes, "commitmentBytes")
	if err != nil {
		return nil, err
	}

	s, err := in.acquire()
	if err != nil {
		return nil, err
	}
	defer in.release()

	proof, ret := in.eng.ComputeBlobKZGProof(s, b, c)
	if err := in.check(OpComputeBlobKZGProof, ret); err != nil {
		return nil, err
	}
	return clone(proof[:]), nil
}

func (in *Instance) VerifyKZGProof(commitmentBytes, zBytes, yBytes, proofBytes any) (bool, error) {
	c, err := bytes48Of(commitmentBytes, "commitmentBytes")
	if err != nil {
		return false, err
	}
	z, err := bytes32Of(zBytes, "zBytes")
	if err != nil {
		return false, err
	}
	y, err := bytes32Of(yBytes, "yBytes")
	if err != nil {
		return false, err
	}
	p, err := bytes48Of(proofBytes, "proofBytes")
	if err != nil {
		return false, err
	}

	s, err := in.acquire()
	if err != nil {
		return false, err
	}
	defer in.release()

	ok, ret := in.eng.VerifyKZGProof(s, c, z, y, p)
	if err := in.check(OpVerifyKZGProof, ret); err != nil {
		return false, err
	}
	return ok, nil
}

func (in *Instance) VerifyBlobKZGProof(blob, commitmentBytes, proofBytes any) (bool, error) {
	b, err := blobOf(blob, "blob")
	if err != nil {
		return false, err
	}
	c, err := bytes48Of(commitmentBytes, "commitmentBytes")
	if err != nil {
		return false, err
	}
	p, err := bytes48Of(proofBytes, "proofBytes")
	if err != nil {
		return false, err
	}

	s, err := in.acquire()
	if err != nil {
		return false, err
	}
	defer in.release()

	ok, ret := in.eng.VerifyBlobKZGProof(s, b, c, p)
	if err := in.check(OpVerifyBlobKZGProof, ret); err != nil {
		return false, err
	}
	return ok, nil
}

// VerifyCellKZGProof verifies a single cell. The cell id is range checked by
// the engine.
func (in *Instance) VerifyCellKZGProof(commitmentBytes, cellID, cell, proofBytes any) (bool, error) {
	c, err := bytes48Of(commitmentBytes, "commitmentBytes")
	if err != nil {
		return false, err
	}
	id, err := uintOf(cellID, "cellId")
	if err != nil {
		return false, err
	}
	cl, err := cellOf(cell, "cell")
	if err != nil {
		return false, err
	}
	p, err := bytes48Of(proofBytes, "proofBytes")
	if err != nil {
		return false, err
	}

	s, err := in.acquire()
	if err != nil {
		return false, err
	}
	defer in.release()

	ok, ret := in.eng.VerifyCellKZGProof(s, c, id, cl, p)
	if err := in.check(OpVerifyCellKZGProof, ret); err != nil {
		return false, err
	}
	return ok, nil
}
