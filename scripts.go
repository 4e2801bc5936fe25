package instagram

// Evaluation scripts. Each receives the Descriptor as its first argument so
// locators never live inside the script text.

const jsExtractProfile = `(d) => {
	const text = (sel) => {
		const el = sel ? document.querySelector(sel) : null;
		return el ? el.textContent.trim() : '';
	};
	const img = d.profileImage ? document.querySelector(d.profileImage) : null;
	const link = d.externalLink ? document.querySelector(d.externalLink) : null;
	const items = d.countItems ? Array.from(document.querySelectorAll(d.countItems)) : [];
	return {
		username: text(d.handle),
		fullName: text(d.displayName),
		biography: text(d.biography),
		profileImageUrl: img ? img.src : '',
		externalUrl: link ? link.textContent.trim() : '',
		counts: items.map(el => el.textContent.trim()),
		isVerified: d.verifiedMarker ? document.querySelector(d.verifiedMarker) !== null : false,
		isPrivate: d.privateText ? document.body.innerText.includes(d.privateText) : false,
	};
}`

const jsScrollToBottom = `() => {
	window.scrollTo(0, document.body.scrollHeight);
}`

const jsCountPosts = `(d) => document.querySelectorAll(d.postLink).length`

const jsExtractPosts = `(d, max) => {
	return Array.from(document.querySelectorAll(d.postLink)).slice(0, max).map(a => {
		const img = a.querySelector('img');
		return {
			href: a.href,
			thumbnailUrl: img ? img.src : '',
			isVideo: d.videoMarker ? a.querySelector(d.videoMarker) !== null : false,
			alt: img && img.alt ? img.alt : '',
		};
	});
}`

const jsExtractPostDetail = `(d) => {
	const text = (sel) => {
		const el = sel ? document.querySelector(sel) : null;
		return el ? el.textContent.trim() : '';
	};
	const time = d.detailTime ? document.querySelector(d.detailTime) : null;
	const imgs = d.detailImages ? Array.from(document.querySelectorAll(d.detailImages)) : [];
	return {
		caption: text(d.detailCaption),
		likes: text(d.detailLikes),
		commentItems: d.detailComments ? document.querySelectorAll(d.detailComments).length : 0,
		datetime: time ? (time.getAttribute('datetime') || '') : '',
		isVideo: d.detailVideoMarker ? document.querySelector(d.detailVideoMarker) !== null : false,
		images: imgs
			.filter(img => !d.profilePicMarker || !(img.srcset || '').includes(d.profilePicMarker))
			.map(img => ({ url: img.src, altText: img.alt || '' })),
		location: text(d.detailLocation),
	};
}`
